package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "gymdesk-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("Load returns nil for unknown namespace", func(t *testing.T) {
		payload, err := store.Load(ctx, "missing")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if payload != nil {
			t.Errorf("Expected nil payload, got %q", payload)
		}
		if _, ok, err := store.UpdatedAt(ctx, "missing"); err != nil || ok {
			t.Errorf("Expected no timestamp, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("Save then Load round-trips", func(t *testing.T) {
		want := `{"members":[{"id":"a"}]}`
		if err := store.Save(ctx, "gym", []byte(want)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		got, err := store.Load(ctx, "gym")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if string(got) != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	})

	t.Run("Save overwrites previous payload", func(t *testing.T) {
		store.now = func() time.Time { return time.Unix(1700000000, 0) }
		defer func() { store.now = time.Now }()

		if err := store.Save(ctx, "gym", []byte(`{"v":1}`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := store.Save(ctx, "gym", []byte(`{"v":2}`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		got, err := store.Load(ctx, "gym")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if string(got) != `{"v":2}` {
			t.Errorf("Expected latest payload, got %s", got)
		}

		ts, ok, err := store.UpdatedAt(ctx, "gym")
		if err != nil || !ok {
			t.Fatalf("UpdatedAt failed: ok=%v err=%v", ok, err)
		}
		if ts.Unix() != 1700000000 {
			t.Errorf("Expected updated_at 1700000000, got %d", ts.Unix())
		}
	})

	t.Run("Namespaces are independent", func(t *testing.T) {
		if err := store.Save(ctx, "backup", []byte(`{}`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, err := store.Load(ctx, "gym")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if string(got) != `{"v":2}` {
			t.Errorf("Expected gym namespace untouched, got %s", got)
		}
	})
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := first.Save(ctx, "gym", []byte(`{"lastInvoiceSequence":4}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer second.Close()

	got, err := second.Load(ctx, "gym")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != `{"lastInvoiceSequence":4}` {
		t.Errorf("Expected payload to survive reopen, got %s", got)
	}
}
