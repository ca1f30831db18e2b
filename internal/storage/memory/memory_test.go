package memory

import (
	"context"
	"testing"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	got, err := s.Load(ctx, "gym")
	if err != nil || got != nil {
		t.Fatalf("Load of empty namespace = %q, %v; want nil, nil", got, err)
	}

	payload := []byte(`{"a":1}`)
	if err := s.Save(ctx, "gym", payload); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	payload[2] = 'b'

	got, err = s.Load(ctx, "gym")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("Expected stored copy to be unaffected by caller, got %s", got)
	}
}
