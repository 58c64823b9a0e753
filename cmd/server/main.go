// Command server runs the authoritative tick-based game world: it loads
// config.toml (or falls back to defaults), starts the websocket+UDP
// listener, exposes Prometheus metrics, and drives the fixed tick loop
// until interrupted.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcson909/client-server-multiplayer-playground/internal/config"
	"github.com/marcson909/client-server-multiplayer-playground/internal/metrics"
	"github.com/marcson909/client-server-multiplayer-playground/internal/transport"
	"github.com/marcson909/client-server-multiplayer-playground/server"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("server: loading config: %v", err)
	}

	m := metrics.NewServer(nil)
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("server: metrics listening on %s", cfg.MetricsAddr)
		if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
			log.Printf("server: metrics server stopped: %v", err)
		}
	}()

	listener, err := transport.Listen(cfg.WSAddr, cfg.UDPAddr)
	if err != nil {
		log.Fatalf("server: %v", err)
	}
	defer listener.Close()

	world := server.New(cfg, m)

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Print("server: shutting down")
		close(done)
	}()

	log.Printf("server: ws on %s, udp on %s, tick %.2fs", cfg.WSAddr, cfg.UDPAddr, cfg.TickRate)
	server.Run(world, listener, done)
}
