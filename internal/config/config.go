// Package config loads the tunables named in spec.md §6 from an optional
// TOML file, falling back to the reference constants when the file is
// absent or a field is unset.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// Config holds every server/client tunable constant plus the listener
// addresses the transport and metrics packages bind to.
type Config struct {
	TileSize           float32 `toml:"tile_size"`
	TickRate           float64 `toml:"tick_rate"`
	ViewDistance       int32   `toml:"view_distance"`
	InterpolationDelay float64 `toml:"interpolation_delay"`
	ProtocolID         uint64  `toml:"protocol_id"`
	ServerPort         int     `toml:"server_port"`
	InventorySlots     int     `toml:"inventory_slots"`
	BoundaryRadius     int32   `toml:"boundary_radius"`

	WSAddr      string `toml:"ws_addr"`
	UDPAddr     string `toml:"udp_addr"`
	MetricsAddr string `toml:"metrics_addr"`
}

// Default returns the constants named in spec.md §6.
func Default() Config {
	return Config{
		TileSize:           32.0,
		TickRate:           0.6,
		ViewDistance:       5,
		InterpolationDelay: 0.1,
		ProtocolID:         7,
		ServerPort:         5000,
		InventorySlots:     28,
		BoundaryRadius:     5,

		WSAddr:      "127.0.0.1:5000",
		UDPAddr:     "127.0.0.1:5001",
		MetricsAddr: "127.0.0.1:9090",
	}
}

// Load reads a TOML file at path, overlaying any fields it sets onto the
// defaults. A missing file is not an error — it simply yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := toml.Unmarshal(contents, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
