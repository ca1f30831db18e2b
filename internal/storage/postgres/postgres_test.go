package postgres

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping postgres tests")
	}
	s, err := New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.Error(t, err)
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ns := "test-" + uuid.NewString()

	got, err := s.Load(ctx, ns)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Save(ctx, ns, []byte(`{"members":[],"lastInvoiceSequence":1}`)))
	require.NoError(t, s.Save(ctx, ns, []byte(`{"members":[],"lastInvoiceSequence":2}`)))

	got, err = s.Load(ctx, ns)
	require.NoError(t, err)

	// JSONB normalizes whitespace and key order, so compare decoded values.
	var doc map[string]any
	require.NoError(t, json.Unmarshal(got, &doc))
	assert.Equal(t, float64(2), doc["lastInvoiceSequence"])
}
