package server

import (
	"log"
	"time"

	"github.com/marcson909/client-server-multiplayer-playground/internal/protocol"
	"github.com/marcson909/client-server-multiplayer-playground/internal/transport"
)

// Run drives the fixed-tick loop and the listener's accept loop until done
// is closed. A time.Ticker at the configured tick rate replaces the
// teacher's frame-delta accumulator (gameTick/tickLoop in main.go): a Go
// server can simply tick on a fixed wall-clock interval instead of
// accumulating a variable per-frame delta the way a client-side game loop
// must.
func Run(w *World, listener transport.Listener, done <-chan struct{}) {
	go acceptLoop(w, listener, done)

	ticker := time.NewTicker(time.Duration(w.cfg.TickRate * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			w.Tick()
			w.ReapDisconnected()
		}
	}
}

func acceptLoop(w *World, listener transport.Listener, done <-chan struct{}) {
	for {
		sess, err := listener.Accept()
		if err != nil {
			select {
			case <-done:
				return
			default:
				log.Printf("server: accept failed: %v", err)
				return
			}
		}
		go handleSession(w, sess, done)
	}
}

// handleSession blocks on the session's first inbound message expecting a
// Join, then fans every subsequent message into HandleMessage until the
// session closes.
func handleSession(w *World, sess transport.Session, done <-chan struct{}) {
	select {
	case env, ok := <-sess.Inbound():
		if !ok || env.Kind != protocol.KindJoin {
			log.Printf("server: session %s's first message was not a Join, dropping", sess.ID())
			sess.Close()
			return
		}
		playerID := w.Join(env.Name, sess)
		runSessionLoop(w, playerID, sess, done)
	case <-sess.Closed():
		return
	case <-done:
		return
	}
}

func runSessionLoop(w *World, playerID uint64, sess transport.Session, done <-chan struct{}) {
	for {
		select {
		case env, ok := <-sess.Inbound():
			if !ok {
				return
			}
			w.HandleMessage(playerID, env)
		case <-sess.Closed():
			return
		case <-done:
			return
		}
	}
}
