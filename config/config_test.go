package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lstoned/lsrd/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "lsrd.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadDefaultsPort(t *testing.T) {
	path := writeConfig(t, `
router_id: r1
local_ip: 10.0.0.1
attached_networks:
  - 10.0.1.0/24
neighbors:
  - id: r2
    ip: 10.0.0.2
`)

	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Port != config.DefaultPort {
		t.Fatalf("got port %d, want default %d", c.Port, config.DefaultPort)
	}
	if c.Neighbors[0].Port != config.DefaultPort {
		t.Fatalf("got neighbor port %d, want default %d", c.Neighbors[0].Port, config.DefaultPort)
	}
}

func TestLoadDefaultsLinkParameters(t *testing.T) {
	path := writeConfig(t, `
router_id: r1
local_ip: 10.0.0.1
neighbors:
  - id: r2
    ip: 10.0.0.2
  - id: r3
    ip: 10.0.0.3
    capacity: 10
    delay_ms: 20
    cost: 2
`)

	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	r2 := c.Neighbors[0]
	if r2.Capacity != config.DefaultCapacity || r2.DelayMS != config.DefaultDelayMS || r2.Cost != config.DefaultCost {
		t.Fatalf("got %+v, want the ground-truth defaults (capacity 100, delay_ms 1, cost 1)", r2)
	}

	r3 := c.Neighbors[1]
	if r3.Capacity != 10 || r3.DelayMS != 20 || r3.Cost != 2 {
		t.Fatalf("got %+v, want the explicitly configured values preserved", r3)
	}
}

func TestLoadLocalIPFallsBackToNeighbor(t *testing.T) {
	path := writeConfig(t, `
router_id: r1
neighbors:
  - id: r2
    ip: 10.0.0.2
    local_ip: 10.0.0.1
`)

	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.LocalIP != "10.0.0.1" {
		t.Fatalf("got local_ip %q, want 10.0.0.1 (from the neighbor entry)", c.LocalIP)
	}
}

func TestLoadRequiresRouterID(t *testing.T) {
	path := writeConfig(t, `
local_ip: 10.0.0.1
`)

	if _, err := config.Load(path); err == nil {
		t.Fatalf("expected an error when router_id is missing")
	}
}

func TestLoadRequiresLocalIP(t *testing.T) {
	path := writeConfig(t, `
router_id: r1
`)

	if _, err := config.Load(path); err == nil {
		t.Fatalf("expected an error when local_ip cannot be resolved")
	}
}
