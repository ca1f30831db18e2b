package idgen

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestGeneratorFormat(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	g := NewGenerator(func() time.Time { return fixed }, bytes.NewReader([]byte{0, 1, 35, 36, 71}))

	id := g.Next()

	prefix := strconv.FormatInt(fixed.UnixMilli(), 36)
	if !strings.HasPrefix(id, prefix) {
		t.Fatalf("id %q does not start with timestamp %q", id, prefix)
	}
	if got := strings.TrimPrefix(id, prefix); got != "01z0z" {
		t.Errorf("random suffix = %q, want %q", got, "01z0z")
	}
}

func TestNewIsUniqueAndBase36(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id after %d calls: %s", i, id)
		}
		seen[id] = true
		for _, r := range id {
			if !strings.ContainsRune(alphabet, r) {
				t.Fatalf("id %q contains non base-36 rune %q", id, r)
			}
		}
	}
}

func TestNextFallsBackWhenRandomFails(t *testing.T) {
	g := NewGenerator(nil, bytes.NewReader(nil))
	if id := g.Next(); len(id) <= randLength {
		t.Errorf("expected timestamp plus suffix, got %q", id)
	}
}
