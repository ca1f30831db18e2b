package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	c := New()

	c.Mutation("members", "add")
	c.Mutation("members", "add")
	c.PersistWrite(nil)
	c.PersistWrite(errors.New("disk full"))
	c.SyncFetch("invoices", "merged")
	c.SyncDuration(150 * time.Millisecond)

	if got := testutil.ToFloat64(c.mutations.WithLabelValues("members", "add")); got != 2 {
		t.Errorf("mutations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.persistWrites); got != 1 {
		t.Errorf("persist writes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.persistFailures); got != 1 {
		t.Errorf("persist failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.syncFetches.WithLabelValues("invoices", "merged")); got != 1 {
		t.Errorf("sync fetches = %v, want 1", got)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.Mutation("members", "add")
	c.PersistWrite(nil)
	c.SyncFetch("members", "error")
	c.SyncDuration(time.Second)
	if c.Registry() != nil {
		t.Error("nil collector should have no registry")
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	c := New()
	c.Mutation("invoices", "update")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `gymdesk_store_mutations_total{action="update",entity="invoices"} 1`) {
		t.Errorf("metrics output missing mutation counter:\n%s", rec.Body.String())
	}
}
