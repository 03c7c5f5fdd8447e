package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/fincoach/internal/model"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("Theme = %q, want flexoki-dark", cfg.Appearance.Theme)
	}
	if cfg.Policy.SavingsBands.Excellent != 20 {
		t.Errorf("Excellent band = %v, want 20", cfg.Policy.SavingsBands.Excellent)
	}
}

func TestSaveLoadRoundTripPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.AI.APIKey = "sk-test"
	cfg.Policy.SavingsBands.Excellent = 30

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.AI.APIKey != "sk-test" || got.Policy.SavingsBands.Excellent != 30 {
		t.Errorf("round trip lost values: %+v", got)
	}
	if len(got.Policy.Guidelines) != len(cfg.Policy.Guidelines) {
		t.Errorf("guidelines = %d, want %d", len(got.Policy.Guidelines), len(cfg.Policy.Guidelines))
	}
}

func TestPolicyOverrideFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[policy.savings_bands]
low = 10
good = 20
excellent = 30
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Policy.SavingsBands.Low != 10 || cfg.Policy.SavingsBands.Excellent != 30 {
		t.Errorf("bands = %+v", cfg.Policy.SavingsBands)
	}
	if len(cfg.Policy.Guidelines) == 0 {
		t.Error("default guidelines lost when only bands are overridden")
	}
}

func TestEnvOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AI.APIKey = "from-file"
	t.Setenv(EnvAIKey, "")
	if got := GetAIKey(cfg); got != "from-file" {
		t.Errorf("GetAIKey = %q, want from-file", got)
	}
	t.Setenv(EnvAIKey, "from-env")
	if got := GetAIKey(cfg); got != "from-env" {
		t.Errorf("GetAIKey = %q, want from-env", got)
	}
}

func TestAITimeoutDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AI.TimeoutSec = 0
	if got := AITimeout(cfg); got != 15*time.Second {
		t.Errorf("AITimeout = %v, want 15s", got)
	}
}

func TestDemographicsFiltering(t *testing.T) {
	cfg := DefaultConfig()
	if got := Demographics(cfg); len(got) != 5 {
		t.Errorf("default demographics = %v, want all 5", got)
	}
	cfg.Profile.Demographics = []string{"Student", "bogus", "professional"}
	got := Demographics(cfg)
	if len(got) != 2 || got[0] != model.Student || got[1] != model.Professional {
		t.Errorf("Demographics = %v, want [student professional]", got)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	p, b := model.SampleProfile(model.Professional)
	if err := SaveProfile(path, p, b); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	gotP, gotB, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if gotP != p {
		t.Errorf("profile = %+v, want %+v", gotP, p)
	}
	if gotB.Len() != b.Len() || gotB.Items()[0].Category != "Rent/Housing" {
		t.Errorf("expenses = %+v", gotB.Items())
	}
}

func TestLoadProfileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	data := `
[profile]
age = 12
income = 1000
demographic = "student"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadProfile(path); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestLoadProfileCanonicalizesCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	data := `
[profile]
age = 21
income = 10000
demographic = "Student"
risk_tolerance = "AGGRESSIVE"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	p, _, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Demographic != model.Student || p.RiskTolerance != model.Aggressive {
		t.Errorf("profile = %q/%q, want student/aggressive", p.Demographic, p.RiskTolerance)
	}
	if !p.IsStudent() {
		t.Error("IsStudent = false, want true")
	}
}

func TestSaveProfileReportsWriteFailure(t *testing.T) {
	dir := t.TempDir()
	p, b := model.SampleProfile(model.Student)
	// The target is an existing directory, so it cannot be opened for writing.
	if err := SaveProfile(dir, p, b); err == nil {
		t.Fatal("SaveProfile into a directory succeeded, want error")
	}
	if err := SaveTo(dir, DefaultConfig()); err == nil {
		t.Fatal("SaveTo into a directory succeeded, want error")
	}
}
