package snapshot

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func testAggregate(label string) Aggregate {
	return Aggregate{
		TakenAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		Label:   label,
		Total:   5,
		ByState: map[string]int{"OPEN": 3, "CLOSED": 2},
		ByLabel: map[string]int{"bug": 2},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreWithDir: %v", err)
	}

	agg := testAggregate("weekly")
	name, err := store.Save(agg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if name != "2026-02-01-weekly" {
		t.Errorf("name = %q, want 2026-02-01-weekly", name)
	}

	loaded, err := store.Load(name)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.TakenAt.Equal(agg.TakenAt) {
		t.Errorf("TakenAt = %v, want %v", loaded.TakenAt, agg.TakenAt)
	}
	if loaded.Total != agg.Total || loaded.Label != agg.Label {
		t.Errorf("loaded = %+v, want %+v", loaded, agg)
	}
	if !reflect.DeepEqual(loaded.ByState, agg.ByState) {
		t.Errorf("ByState = %v, want %v", loaded.ByState, agg.ByState)
	}

	// Load accepts the .json suffix too.
	if _, err := store.Load(name + ".json"); err != nil {
		t.Errorf("Load with suffix: %v", err)
	}
}

func TestStoreLoadNotFound(t *testing.T) {
	store, err := NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreWithDir: %v", err)
	}

	_, err = store.Load("2026-01-01-nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	store, err := NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreWithDir: %v", err)
	}

	names, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected empty list, got %v", names)
	}

	a := testAggregate("weekly")
	if _, err := store.Save(a); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b := testAggregate("release")
	b.TakenAt = b.TakenAt.Add(-48 * time.Hour)
	if _, err := store.Save(b); err != nil {
		t.Fatalf("Save: %v", err)
	}

	names, err = store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	// Sorted ascending; latest-* markers excluded.
	want := []string{"2026-01-30-release", "2026-02-01-weekly"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}
}

func TestStoreDefaultLabel(t *testing.T) {
	store, err := NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreWithDir: %v", err)
	}

	agg := testAggregate("")
	name, err := store.Save(agg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if name != "2026-02-01-snapshot" {
		t.Errorf("name = %q, want 2026-02-01-snapshot", name)
	}
}

func TestStoreOverwriteSameDay(t *testing.T) {
	store, err := NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreWithDir: %v", err)
	}

	first := testAggregate("daily")
	if _, err := store.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := testAggregate("daily")
	second.Total = 9
	name, err := store.Save(second)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(name)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Total != 9 {
		t.Errorf("same-day save did not replace: total = %d", loaded.Total)
	}

	names, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 {
		t.Errorf("expected a single snapshot, got %v", names)
	}
}
