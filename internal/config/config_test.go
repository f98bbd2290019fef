package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.WeatherCacheTTL.Seconds() != 600 {
		t.Errorf("cache ttl = %v, want 10m", cfg.WeatherCacheTTL)
	}
	if cfg.UnassignedPolicy != "log-only" {
		t.Errorf("policy = %q", cfg.UnassignedPolicy)
	}
	if len(cfg.Zones) == 0 || cfg.Zones[0].Zone != "Bedroom" {
		t.Errorf("default zones missing: %+v", cfg.Zones)
	}
	if _, ok := cfg.Bands["audio_peak"]; !ok {
		t.Error("default bands missing audio_peak")
	}
}

func TestLoadZoneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.yaml")
	content := `
zones:
  - zone: Office
    devices: [desk_node]
  - zone: Garage
    devices: [garage_node_1, garage_node_2]
bands:
  co2:
    - lower: 0
      label: Fresh
    - lower: 1000
      label: Stuffy
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ZONE_CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(cfg.Zones) != 2 || cfg.Zones[0].Zone != "Office" || cfg.Zones[1].Zone != "Garage" {
		t.Fatalf("zones = %+v", cfg.Zones)
	}
	if len(cfg.Zones[1].Devices) != 2 {
		t.Errorf("garage devices = %v", cfg.Zones[1].Devices)
	}
	if bands, ok := cfg.Bands["co2"]; !ok || len(bands) != 2 || bands[1].Label != "Stuffy" {
		t.Errorf("bands = %+v", cfg.Bands)
	}
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	t.Setenv("UNASSIGNED_DEVICE_POLICY", "drop")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
