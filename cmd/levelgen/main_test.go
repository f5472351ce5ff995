package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lixenwraith/depthgen/config"
)

func testConfig(t *testing.T) *config.Generation {
	t.Helper()
	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	cfg.Seed = "cli"
	cfg.Width, cfg.Height = 20000, 10000
	cfg.SaveDir = filepath.Join(t.TempDir(), "levels")
	return cfg
}

func TestRun_PrintsSummary(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), testConfig(t), "", "", false, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{`seed "cli"`, "tunnels: main 1", "equality checks:", "final"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected output to contain %q\n%s", want, out.String())
		}
	}
}

func TestRun_SaveLoadFiles(t *testing.T) {
	cfg := testConfig(t)
	var first bytes.Buffer
	if err := run(context.Background(), cfg, "one", "", false, &first); err != nil {
		t.Fatalf("run save failed: %v", err)
	}

	other := *cfg
	other.Seed = "ignored"
	var second bytes.Buffer
	if err := run(context.Background(), &other, "", "one", false, &second); err != nil {
		t.Fatalf("run load failed: %v", err)
	}
	if !strings.Contains(second.String(), `seed "cli"`) {
		t.Errorf("Expected loaded record seed, got\n%s", second.String())
	}

	var names bytes.Buffer
	if err := run(context.Background(), cfg, "", "", true, &names); err != nil {
		t.Fatalf("run list failed: %v", err)
	}
	if strings.TrimSpace(names.String()) != "one" {
		t.Errorf("Expected [one], got %q", names.String())
	}
}

func TestRun_SaveLoadStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBPath = filepath.Join(t.TempDir(), "levels.db")
	if err := run(context.Background(), cfg, "db-one", "", false, io.Discard); err != nil {
		t.Fatalf("run save failed: %v", err)
	}
	var out bytes.Buffer
	if err := run(context.Background(), cfg, "", "db-one", false, &out); err != nil {
		t.Fatalf("run load failed: %v", err)
	}
	if !strings.Contains(out.String(), `seed "cli"`) {
		t.Errorf("Expected stored seed, got\n%s", out.String())
	}
}
