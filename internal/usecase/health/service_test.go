package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockDataset struct {
	err error
}

func (m *mockDataset) Ready(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockDataset{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["storage"] != CheckOK {
		t.Errorf("expected storage %q, got %q", CheckOK, r.Checks["storage"])
	}
	if r.Checks["dataset"] != CheckOK {
		t.Errorf("expected dataset %q, got %q", CheckOK, r.Checks["dataset"])
	}
}

func TestCheck_StorageError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, &mockDataset{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["storage"] != CheckError {
		t.Errorf("expected storage %q, got %q", CheckError, r.Checks["storage"])
	}
}

func TestCheck_DatasetNotLoaded(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockDataset{err: errors.New("dataset unavailable")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["dataset"] != CheckError {
		t.Errorf("expected dataset %q, got %q", CheckError, r.Checks["dataset"])
	}
}

func TestCheck_BothFail(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("db down")}, &mockDataset{err: errors.New("empty")})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoDataset(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["dataset"]; ok {
		t.Error("dataset check should be absent when dataset is nil")
	}
}
