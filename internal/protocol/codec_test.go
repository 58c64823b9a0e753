package protocol

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/marcson909/client-server-multiplayer-playground/internal/action"
	"github.com/marcson909/client-server-multiplayer-playground/internal/gamedata"
	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
)

func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	in := &Envelope{
		Kind:     KindQueueAction,
		InputSeq: 42,
		Action: action.GameAction{
			Kind: action.Move,
			Path: []tile.Position{{X: 1, Y: 2}, {X: 1, Y: 3}},
		},
	}

	var buf bytes.Buffer
	if err := EncodeFrame(&buf, in); err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}

	out, err := DecodeFrame(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}

	if out.Kind != KindQueueAction || out.InputSeq != 42 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if len(out.Action.Path) != 2 || out.Action.Path[1].Y != 3 {
		t.Fatalf("round trip action path mismatch: %+v", out.Action)
	}
}

func TestEncodeDecodeFrameTwoInSequence(t *testing.T) {
	var buf bytes.Buffer
	first := &Envelope{Kind: KindCancelAction}
	second := &Envelope{Kind: KindJoin, Name: "Alice"}

	if err := EncodeFrame(&buf, first); err != nil {
		t.Fatal(err)
	}
	if err := EncodeFrame(&buf, second); err != nil {
		t.Fatal(err)
	}

	r := bufio.NewReader(&buf)
	got1, err := DecodeFrame(r)
	if err != nil {
		t.Fatal(err)
	}
	if got1.Kind != KindCancelAction {
		t.Fatalf("expected first frame CancelAction, got %v", got1.Kind)
	}

	got2, err := DecodeFrame(r)
	if err != nil {
		t.Fatal(err)
	}
	if got2.Kind != KindJoin || got2.Name != "Alice" {
		t.Fatalf("expected second frame Join{Alice}, got %+v", got2)
	}
}

func TestEncodeDecodeDatagramRoundTrip(t *testing.T) {
	in := &Envelope{
		Kind: KindDeltaUpdate,
		Tick: 7,
		Deltas: []EntityDelta{
			{EntityID: 1, DeltaKind: DeltaPositionOnly, TilePos: tile.Position{X: 4, Y: 5}, LastProcessedInput: 3},
		},
	}

	data, err := EncodeDatagram(in)
	if err != nil {
		t.Fatalf("EncodeDatagram: %v", err)
	}

	out, err := DecodeDatagram(data)
	if err != nil {
		t.Fatalf("DecodeDatagram: %v", err)
	}
	if out.Tick != 7 || len(out.Deltas) != 1 || out.Deltas[0].TilePos.X != 4 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestDecodeFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x7f, 0xff, 0xff, 0xff}) // huge bogus length prefix
	if _, err := DecodeFrame(bufio.NewReader(&buf)); err == nil {
		t.Fatal("expected an error for a length prefix exceeding the max frame size")
	}
}

func TestEnvelopeCarriesInventorySnapshot(t *testing.T) {
	inv := gamedata.NewInventory(gamedata.DefaultInventorySlots)
	inv.AddItem(gamedata.BronzeAxe, 1)

	in := &Envelope{Kind: KindInventoryUpdate, Inventory: inv}
	var buf bytes.Buffer
	if err := EncodeFrame(&buf, in); err != nil {
		t.Fatal(err)
	}
	out, err := DecodeFrame(bufio.NewReader(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Inventory.HasItem(gamedata.BronzeAxe, 1) {
		t.Fatal("expected decoded inventory to still carry the bronze axe")
	}
}
