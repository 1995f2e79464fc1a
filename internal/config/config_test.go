package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  storage: memory
policy:
  oilPricePerBarrel: 75
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if config.Server.ListenAddr != ":8000" {
		t.Errorf("listen addr default: got %s", config.Server.ListenAddr)
	}
	if config.Server.Storage != "memory" {
		t.Errorf("storage: got %s", config.Server.Storage)
	}
	if config.Policy.OilPricePerBarrel != 75 {
		t.Errorf("oil price must come from the file, got %v", config.Policy.OilPricePerBarrel)
	}
	if config.Policy.RecoveryFeeRate != 0.30 {
		t.Errorf("recovery fee default: got %v", config.Policy.RecoveryFeeRate)
	}
	if len(config.Policy.AlertDaysBefore) == 0 {
		t.Errorf("alert offsets must default")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDefaultUsesMemoryStorage(t *testing.T) {
	config := Default()
	if config.Server.Storage != "memory" {
		t.Errorf("storage: got %s", config.Server.Storage)
	}
	policy := config.ValuationPolicy()
	if policy.OilPricePerBarrel != 80 || policy.MonthlyYieldPerAcre != 30 {
		t.Errorf("policy defaults: got %+v", policy)
	}
}
