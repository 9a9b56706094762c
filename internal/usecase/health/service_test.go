package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, &mockChecker{}, &mockChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, c := range []string{ComponentRoster, ComponentIndex, ComponentEmbedding, ComponentLLM} {
		if r.Checks[c] != CheckOK {
			t.Errorf("expected %s %q, got %q", c, CheckOK, r.Checks[c])
		}
	}
}

func TestCheck_RosterErrorIsUnhealthy(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("no such file")}, &mockPinger{}, &mockChecker{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks[ComponentRoster] != CheckError {
		t.Errorf("expected roster %q, got %q", CheckError, r.Checks[ComponentRoster])
	}
}

func TestCheck_SecondaryFailuresDegrade(t *testing.T) {
	tests := []struct {
		name      string
		svc       *Service
		component string
	}{
		{"index", New(&mockPinger{}, &mockPinger{err: errors.New("conn refused")}, nil, nil), ComponentIndex},
		{"embedding", New(&mockPinger{}, nil, &mockChecker{err: errors.New("timeout")}, nil), ComponentEmbedding},
		{"llm", New(&mockPinger{}, nil, nil, &mockChecker{err: errors.New("401")}), ComponentLLM},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.svc.Check(context.Background())
			if r.Status != Degraded {
				t.Errorf("expected %q, got %q", Degraded, r.Status)
			}
			if r.Checks[tc.component] != CheckError {
				t.Errorf("expected %s error", tc.component)
			}
			if r.Checks[ComponentRoster] != CheckOK {
				t.Error("expected roster ok")
			}
		})
	}
}

func TestCheck_OptionalComponentsAbsent(t *testing.T) {
	svc := New(&mockPinger{}, nil, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 1 {
		t.Errorf("expected only the roster check, got %v", r.Checks)
	}
}

func TestCheck_AllFail(t *testing.T) {
	svc := New(
		&mockPinger{err: errors.New("db down")},
		&mockPinger{err: errors.New("redis down")},
		&mockChecker{err: errors.New("emb down")},
		&mockChecker{err: errors.New("llm down")},
	)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}
