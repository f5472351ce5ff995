package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/depthgen/level"
)

func testRecord(seed string) level.LevelData {
	d := level.NewLevelData(seed, "cold_caverns", level.Size{Width: 20000, Height: 10000}, 35)
	d.HasBeaconStation = true
	d.EventHistory = []string{"intro", "storm"}
	return d
}

func sameRecord(t *testing.T, want, got level.LevelData) {
	t.Helper()
	if got.Seed != want.Seed || got.BiomeID != want.BiomeID || got.Size != want.Size {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
	if got.Difficulty != want.Difficulty || got.Type != want.Type || got.HasBeaconStation != want.HasBeaconStation {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
	if len(got.EventHistory) != len(want.EventHistory) {
		t.Errorf("Expected %d events, got %d", len(want.EventHistory), len(got.EventHistory))
	}
}

func TestManager_SaveLoad(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "levels"))
	rec := testRecord("abc")

	if m.Exists("first") {
		t.Fatal("Expected no file before save")
	}
	if err := m.Save("first", rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !m.Exists("first") {
		t.Fatal("Expected file after save")
	}
	got, err := m.Load("first")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	sameRecord(t, rec, got)

	_ = m.Save("second", testRecord("def"))
	names, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Errorf("Expected [first second], got %v", names)
	}

	if err := m.Delete("first"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Load("first"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestManager_RejectsInvalid(t *testing.T) {
	m := NewManager(t.TempDir())
	rec := testRecord("abc")
	rec.Size.Width = 0
	if err := m.Save("bad", rec); !errors.Is(err, level.ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestStore_PutGetList(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "levels.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	a := testRecord("a")
	b := testRecord("b")
	b.BiomeID = "europan_ridge"

	if err := s.Put(ctx, "alpha", a); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put(ctx, "beta", b); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "alpha")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	sameRecord(t, a, got.Data)
	if got.UpdatedAt.IsZero() {
		t.Error("Expected update time")
	}

	a.Difficulty = 90
	if err := s.Put(ctx, "alpha", a); err != nil {
		t.Fatalf("Put replace failed: %v", err)
	}
	got, _ = s.Get(ctx, "alpha")
	if got.Data.Difficulty != 90 {
		t.Errorf("Expected replaced difficulty 90, got %v", got.Data.Difficulty)
	}

	all, err := s.ListByBiome(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("Expected 2 levels, got %d (%v)", len(all), err)
	}
	ridge, _ := s.ListByBiome(ctx, "europan_ridge")
	if len(ridge) != 1 || ridge[0].Name != "beta" {
		t.Errorf("Expected [beta], got %v", ridge)
	}

	if err := s.Delete(ctx, "beta"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "beta"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "beta"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStore_RecordRegeneratesLevel(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "levels.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	rec := testRecord("regen")
	if err := s.Put(ctx, "regen", rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	stored, err := s.Get(ctx, "regen")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	set, err := level.DefaultParamsSet()
	if err != nil {
		t.Fatalf("params load failed: %v", err)
	}
	a, err := level.Generate(rec, set, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := level.Generate(stored.Data, set, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if mm := level.CompareEqualityChecks(a.EqualityChecks, b.EqualityChecks, nil); len(mm) != 0 {
		t.Errorf("Stored record regenerated a different level: %v", mm)
	}
}
