package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/model"
)

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"serve", "--addr", ":9000"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serve.pid")
	if err := writePID(path, 4242); err != nil {
		t.Fatalf("writePID: %v", err)
	}
	pid, err := readPID(path)
	if err != nil || pid != 4242 {
		t.Fatalf("readPID = %d, %v, want 4242", pid, err)
	}
	if err := ensureServerNotRunning(filepath.Join(t.TempDir(), "missing.pid")); err != nil {
		t.Fatalf("missing pid file should mean not running, got %v", err)
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key, want string
	}{
		{"sk-1234567890abcdefgh", "sk-12345...efgh"},
		{"sk-12345", "sk-1..."},
		{"abc", "****"},
	}
	for _, tt := range tests {
		if got := maskAPIKey(tt.key); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func withFlags(t *testing.T, sample, profile string) {
	t.Helper()
	oldSample, oldProfile, oldCfg := flagSample, flagProfile, appCfg
	t.Cleanup(func() { flagSample, flagProfile, appCfg = oldSample, oldProfile, oldCfg })
	flagSample, flagProfile = sample, profile
	appCfg = config.DefaultConfig()
	appCfg.General.DataDir = t.TempDir()
}

func TestLoadSessionSample(t *testing.T) {
	withFlags(t, "student", "")
	sess, err := loadSession(nil)
	if err != nil {
		t.Fatalf("loadSession: %v", err)
	}
	p, err := requireProfile(sess)
	if err != nil || p.Demographic != model.Student {
		t.Fatalf("profile = %+v, %v", p, err)
	}
	if sess.Expenses().Len() == 0 {
		t.Fatal("sample should include expenses")
	}
}

func TestLoadSessionProfileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.toml")
	p, b := model.SampleProfile(model.Professional)
	if err := config.SaveProfile(path, p, b); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	withFlags(t, "", path)
	sess, err := loadSession(nil)
	if err != nil {
		t.Fatalf("loadSession: %v", err)
	}
	got, ok := sess.Profile()
	if !ok || got.Income != p.Income {
		t.Fatalf("profile = %+v, want income %v", got, p.Income)
	}
}

func TestLoadSessionMissingFiles(t *testing.T) {
	withFlags(t, "", "")
	sess, err := loadSession(nil)
	if err != nil {
		t.Fatalf("missing default profile should not fail: %v", err)
	}
	if _, err := requireProfile(sess); !errors.Is(err, errNoProfile) {
		t.Fatalf("requireProfile err = %v, want errNoProfile", err)
	}

	withFlags(t, "", filepath.Join(t.TempDir(), "nope.toml"))
	if _, err := loadSession(nil); err == nil {
		t.Fatal("an explicit --profile that does not exist should fail")
	}
}

func TestLoadSessionUnknownSample(t *testing.T) {
	withFlags(t, "retiree", "")
	if _, err := loadSession(nil); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}
}

func TestSaveSetupChecksTypedKey(t *testing.T) {
	t.Setenv(config.EnvAIKey, "env-key")
	path := filepath.Join(t.TempDir(), "config.toml")

	var checked string
	validate := func(_ context.Context, key, _, _ string) error {
		checked = key
		if key != "env-key" {
			return errors.New("unauthorized")
		}
		return nil
	}

	cfg := config.DefaultConfig()
	cfg.AI.Enabled = true
	cfg.AI.APIKey = "bad"
	if err := saveSetup(context.Background(), path, cfg, validate); err == nil {
		t.Fatal("a rejected typed key should fail even when the environment key is valid")
	}
	if checked != "bad" {
		t.Fatalf("validated key = %q, want %q", checked, "bad")
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("config written after failed check: %v", err)
	}

	cfg.AI.APIKey = "env-key"
	if err := saveSetup(context.Background(), path, cfg, validate); err != nil {
		t.Fatalf("saveSetup: %v", err)
	}
	saved, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if saved.AI.APIKey != "env-key" {
		t.Fatalf("saved key = %q, want env-key", saved.AI.APIKey)
	}
}
