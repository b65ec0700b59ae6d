// Package config loads the router's configuration record: its identity,
// attached networks, and configured neighbors with link parameters
// (spec §6). The core consumes this record; it does not define how a
// deployment produces it, only the shape described here.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPort is used when a config file omits port.
const DefaultPort = 50000

// Defaults for the optional per-neighbor link parameters, matching the
// ground-truth implementation's own defaults for an unspecified link.
const (
	DefaultCapacity = 100
	DefaultDelayMS  = 1
	DefaultCost     = 1
)

// Neighbor describes one configured adjacency.
type Neighbor struct {
	ID       string `yaml:"id"`
	IP       string `yaml:"ip"`
	Port     int    `yaml:"port,omitempty"`
	LocalIP  string `yaml:"local_ip,omitempty"`
	Capacity int    `yaml:"capacity,omitempty"`
	DelayMS  int    `yaml:"delay_ms,omitempty"`
	Cost     int    `yaml:"cost,omitempty"`
}

// Config is the router's configuration record, as described in spec §6.
type Config struct {
	RouterID         string     `yaml:"router_id"`
	LocalIP          string     `yaml:"local_ip,omitempty"`
	Port             int        `yaml:"port,omitempty"`
	AttachedNetworks []string   `yaml:"attached_networks,omitempty"`
	Neighbors        []Neighbor `yaml:"neighbors,omitempty"`
}

// Load reads and parses a YAML config file, applying the fallback rules
// spec §6 describes: local_ip falls back to the first neighbor entry
// that supplies one, and port defaults to 50000.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() error {
	if c.RouterID == "" {
		return fmt.Errorf("config: router_id is required")
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.LocalIP == "" {
		for _, n := range c.Neighbors {
			if n.LocalIP != "" {
				c.LocalIP = n.LocalIP
				break
			}
		}
	}
	if c.LocalIP == "" {
		return fmt.Errorf("config: local_ip is required (directly, or via a neighbor's local_ip)")
	}
	for i := range c.Neighbors {
		n := &c.Neighbors[i]
		if n.Port == 0 {
			n.Port = DefaultPort
		}
		if n.Capacity == 0 {
			n.Capacity = DefaultCapacity
		}
		if n.DelayMS == 0 {
			n.DelayMS = DefaultDelayMS
		}
		if n.Cost == 0 {
			n.Cost = DefaultCost
		}
	}
	return nil
}
