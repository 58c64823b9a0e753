// Command client is a headless driver for the prediction/reconciliation
// core: it joins a running server, logs every state change, and walks a
// short scripted path so the netcode core can be exercised end to end
// without the sprite/gizmo rendering spec.md §1 places out of scope.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/marcson909/client-server-multiplayer-playground/client"
	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
	"github.com/marcson909/client-server-multiplayer-playground/internal/transport"
)

func main() {
	wsURL := flag.String("ws", "ws://127.0.0.1:5000/ws", "server websocket URL")
	udpAddr := flag.String("udp", "127.0.0.1:5001", "server UDP address")
	name := flag.String("name", "Alice", "player name")
	flag.Parse()

	sess, err := transport.Dial(*wsURL, *udpAddr)
	if err != nil {
		log.Fatalf("client: dial: %v", err)
	}
	defer sess.Close()

	state, err := client.Join(sess, *name)
	if err != nil {
		log.Fatalf("client: join: %v", err)
	}
	log.Printf("client: joined as player %d at %v", state.PlayerID, state.Predictor.TilePosition)

	steps := []tile.Position{{X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}}
	for _, step := range steps {
		state.Move([]tile.Position{step})
		time.Sleep(600 * time.Millisecond)
		log.Printf("client: predicted position now %v", state.Predictor.TilePosition)
	}

	select {}
}
