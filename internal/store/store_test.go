package store

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSaveSnapshot_Upserts(t *testing.T) {
	st := openTestStore(t)
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := st.SaveSnapshot("trends", []map[string]any{{"month": "Jan", "amount": 100}}, at); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := st.SaveSnapshot("trends", []map[string]any{{"month": "Feb", "amount": 150}}, at.Add(time.Hour)); err != nil {
		t.Fatalf("SaveSnapshot (update): %v", err)
	}

	rows, err := st.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("LoadAll returned %d rows, want 1", len(rows))
	}
	if rows[0].View != "trends" {
		t.Errorf("View = %q, want trends", rows[0].View)
	}
	if !strings.Contains(string(rows[0].Payload), "Feb") {
		t.Errorf("payload %s should hold the updated data", rows[0].Payload)
	}
	if strings.Contains(string(rows[0].Payload), "Jan") {
		t.Errorf("payload %s should not hold the replaced data", rows[0].Payload)
	}
	if got, want := rows[0].FetchedAt, at.Add(time.Hour); !got.Equal(want) {
		t.Errorf("FetchedAt = %v, want %v", got, want)
	}
}

func TestLoad_MissingView(t *testing.T) {
	st := openTestStore(t)

	_, ok, err := st.Load("velocity")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("Load reported a snapshot for an empty store")
	}
}

func TestClear(t *testing.T) {
	st := openTestStore(t)
	at := time.Now()

	for _, view := range []string{"trends", "velocity", "forecast"} {
		if err := st.SaveSnapshot(view, map[string]any{"v": view}, at); err != nil {
			t.Fatalf("SaveSnapshot(%s): %v", view, err)
		}
	}
	if n, _ := st.Count(); n != 3 {
		t.Fatalf("Count = %d, want 3", n)
	}

	if err := st.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _ := st.Count(); n != 0 {
		t.Errorf("Count after Clear = %d, want 0", n)
	}
}
