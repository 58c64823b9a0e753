package client

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/marcson909/client-server-multiplayer-playground/internal/action"
	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
)

func TestPredictorReconciliation(t *testing.T) {
	Convey("Given a predictor at the origin with prediction and reconciliation enabled", t, func() {
		pf := tile.New(false)
		p := NewPredictor(pf, tile.Position{X: 0, Y: 0})

		Convey("a correctly-predicted move leaves no visible correction after reconciliation", func() {
			env := p.QueueAction(action.GameAction{Kind: action.Move, Path: []tile.Position{{X: 0, Y: 1}}})
			So(env.InputSeq, ShouldEqual, uint32(0))
			So(p.TilePosition, ShouldResemble, tile.Position{X: 0, Y: 1})

			p.Reconcile(tile.Position{X: 0, Y: 1}, 0)

			So(p.TilePosition, ShouldResemble, tile.Position{X: 0, Y: 1})
			So(p.ServerPosition, ShouldResemble, tile.Position{X: 0, Y: 1})
			So(p.pending, ShouldBeEmpty)
		})

		Convey("a mis-predicted move snaps to authoritative state then re-predicts remaining pending inputs", func() {
			p.QueueAction(action.GameAction{Kind: action.Move, Path: []tile.Position{{X: 0, Y: 1}}})
			p.QueueAction(action.GameAction{Kind: action.Move, Path: []tile.Position{{X: 0, Y: 2}}})
			So(p.TilePosition, ShouldResemble, tile.Position{X: 0, Y: 2})

			// Server rejected/replayed input 0 differently: authoritative
			// position is still (0,0), only input 0 acknowledged.
			p.Reconcile(tile.Position{X: 0, Y: 0}, 0)

			// input 1 (the second move) is still pending and gets replayed
			// on top of the authoritative position.
			So(p.ServerPosition, ShouldResemble, tile.Position{X: 0, Y: 0})
			So(p.TilePosition, ShouldResemble, tile.Position{X: 0, Y: 2})
			So(p.pending, ShouldHaveLength, 1)
			So(p.pending[0].Seq, ShouldEqual, uint32(1))
		})

		Convey("disabling reconciliation clears pending inputs without replay", func() {
			p.ReconciliationEnabled = false
			p.QueueAction(action.GameAction{Kind: action.Move, Path: []tile.Position{{X: 0, Y: 1}}})

			p.Reconcile(tile.Position{X: 0, Y: 0}, 0)

			So(p.TilePosition, ShouldResemble, tile.Position{X: 0, Y: 0})
			So(p.pending, ShouldBeEmpty)
		})

		Convey("QueueActions predicts only the Move step of a chop chain", func() {
			env := p.QueueActions([]action.GameAction{
				{Kind: action.Move, Path: []tile.Position{{X: 1, Y: 0}}},
				{Kind: action.ChopTree, TreeEntityID: 42},
			})
			So(env.InputSeq, ShouldEqual, uint32(0))
			So(p.TilePosition, ShouldResemble, tile.Position{X: 1, Y: 0})
			So(p.pending, ShouldHaveLength, 2)
		})
	})
}

func TestPredictorChopAt(t *testing.T) {
	Convey("Given a predictor at the origin", t, func() {
		pf := tile.New(false)
		p := NewPredictor(pf, tile.Position{X: 0, Y: 0})

		Convey("ChopAt queues just the ChopTree action when already adjacent", func() {
			env, ok := p.ChopAt(7, tile.Position{X: 0, Y: 1})
			So(ok, ShouldBeTrue)
			So(env.Actions, ShouldHaveLength, 1)
			So(env.Actions[0].Kind, ShouldEqual, action.ChopTree)
			So(p.TilePosition, ShouldResemble, tile.Position{X: 0, Y: 0})
		})

		Convey("ChopAt walks to the nearest reachable neighbour when not adjacent", func() {
			env, ok := p.ChopAt(7, tile.Position{X: 2, Y: 0})
			So(ok, ShouldBeTrue)
			So(env.Actions, ShouldHaveLength, 2)
			So(env.Actions[0].Kind, ShouldEqual, action.Move)
			So(env.Actions[1].Kind, ShouldEqual, action.ChopTree)
		})

		Convey("ChopAt fails when every neighbour of the tree is blocked", func() {
			for _, n := range (tile.Position{X: 5, Y: 5}).Neighbors() {
				pf.AddObstacle(n)
			}
			_, ok := p.ChopAt(7, tile.Position{X: 5, Y: 5})
			So(ok, ShouldBeFalse)
		})
	})
}
