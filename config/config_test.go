package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultConfig(t *testing.T) {
	if err := LoadDefaultConfig(); err != nil {
		t.Fatalf("LoadDefaultConfig: %v", err)
	}
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"workers", Config.Workers, 4},
		{"block size", Config.BlockSize, 8},
		{"num directions", Config.NumDirections, 16},
		{"window size", Config.WindowSize, 24},
		{"link table dim", Config.LinkTableDim, 20},
		{"max link dist", Config.MaxLinkDist, 20},
		{"min loop len", Config.MinLoopLen, 20},
		{"small loop len", Config.SmallLoopLen, 15},
	}
	for _, test := range tests {
		if test.got != test.want {
			t.Errorf("%s = %d, want %d", test.name, test.got, test.want)
		}
	}
	if Config.ScoreNumerator != 32000.0 {
		t.Errorf("score numerator = %v, want 32000", Config.ScoreNumerator)
	}
	if !Config.NormalizeResolution {
		t.Error("normalize resolution should default to true")
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fprint.toml")
	body := "workers = 2\nblock_size = 16\nscore_numerator = 16000.0\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	defer LoadDefaultConfig()
	if Config.Workers != 2 {
		t.Errorf("workers = %d, want 2", Config.Workers)
	}
	if Config.BlockSize != 16 {
		t.Errorf("block size = %d, want 16", Config.BlockSize)
	}
	if Config.ScoreNumerator != 16000.0 {
		t.Errorf("score numerator = %v, want 16000", Config.ScoreNumerator)
	}
	// untouched keys keep their defaults
	if Config.NumDirections != 16 {
		t.Errorf("num directions = %d, want default 16", Config.NumDirections)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestGetInstallsDefaults(t *testing.T) {
	Config = nil
	p := Get()
	if p == nil || p.BlockSize != 8 {
		t.Fatal("Get should install defaults when no config is loaded")
	}
}
