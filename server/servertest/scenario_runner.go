package servertest

import (
	"fmt"

	"github.com/marcson909/client-server-multiplayer-playground/internal/gamedata"
	"github.com/marcson909/client-server-multiplayer-playground/internal/protocol"
	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
)

// RunScenario builds a fresh TestServer, joins every setup player, executes
// scenario.Actions at their scheduled ticks, steps the simulation through
// MaxTicks, and checks every final-state expectation. It returns every
// violation found (an empty, non-nil slice means the scenario passed).
// Adapted from the teacher's RunScenario/VerifyExpectations
// (testutil/scenario_runner.go), which drove a GameServerInterface of
// units/buildings; this version drives a server.World directly through
// servertest's own TestServer/TestClient.
func RunScenario(scenario *Scenario) ([]string, error) {
	if scenario == nil {
		return nil, fmt.Errorf("servertest: nil scenario")
	}

	ts := NewTestServer()
	clients := make(map[string]*TestClient, len(scenario.Setup.Players))
	for _, name := range scenario.Setup.Players {
		clients[name] = ts.AddTestClient(name)
	}

	for tick := 0; tick < scenario.Expectations.MaxTicks; tick++ {
		for _, a := range scenario.Actions {
			if a.Tick != tick {
				continue
			}
			client, ok := clients[a.Player]
			if !ok {
				return nil, fmt.Errorf("servertest: action at tick %d references unknown player %q", tick, a.Player)
			}
			client.Send(&protocol.Envelope{Kind: protocol.KindQueueAction, Action: a.Action})
		}
		ts.StepTicks(1)
	}

	var violations []string

	for _, expected := range scenario.Expectations.FinalState.Players {
		client, ok := clients[expected.Name]
		if !ok {
			violations = append(violations, fmt.Sprintf("player %q was never set up", expected.Name))
			continue
		}
		pos, inv, skills, ok := ts.World.PlayerSnapshot(client.PlayerID)
		if !ok {
			violations = append(violations, fmt.Sprintf("player %q has no entity at end of scenario", expected.Name))
			continue
		}

		if expected.Position != nil && pos != *expected.Position {
			violations = append(violations, fmt.Sprintf(
				"player %q position mismatch: want %v, got %v", expected.Name, *expected.Position, pos))
		}
		for item, min := range expected.MinInventory {
			if got := inv.CountItem(item); got < min {
				violations = append(violations, fmt.Sprintf(
					"player %q item %v: want at least %d, got %d", expected.Name, item, min, got))
			}
		}
		for skill, min := range expected.MinSkillLevel {
			if got := skills.Level(skill); got < min {
				violations = append(violations, fmt.Sprintf(
					"player %q skill %v: want level at least %d, got %d", expected.Name, skill, min, got))
			}
		}
	}

	for _, expected := range scenario.Expectations.FinalState.Trees {
		found := false
		ts.World.ForEachEntity(func(_ uint64, pos tile.Position, tree *gamedata.Tree) {
			if tree == nil || pos != expected.Position {
				return
			}
			found = true
			if tree.IsChopped != expected.Chopped {
				violations = append(violations, fmt.Sprintf(
					"tree at %v chopped mismatch: want %v, got %v", pos, expected.Chopped, tree.IsChopped))
			}
		})
		if !found {
			violations = append(violations, fmt.Sprintf("no tree found at %v", expected.Position))
		}
	}

	if violations == nil {
		violations = []string{}
	}
	return violations, nil
}
