package watchlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/riskboard/internal/dataset"
	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

// --- Mocks ---

type mockRepo struct {
	lists   map[string][]string
	saveErr error
}

func (m *mockRepo) Load(_ context.Context, profile string) ([]string, error) {
	return append([]string{}, m.lists[profile]...), nil
}

func (m *mockRepo) Save(_ context.Context, profile string, names []string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.lists[profile] = append([]string{}, names...)
	return nil
}

type staticData struct{ snap *dataset.Snapshot }

func (d staticData) Snapshot() *dataset.Snapshot { return d.snap }

func newService() (*Service, *mockRepo) {
	snap := dataset.NewSnapshot(nil, []record.Company{
		{Name: "Acme Corp"},
		{Name: "Foo Inc"},
	}, time.Now())
	repo := &mockRepo{lists: map[string][]string{}}
	return New(repo, staticData{snap}), repo
}

// --- Tests ---

func TestAdd_CanonicalNameAndIdempotent(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	c, err := svc.Add(ctx, "u1", "acme corp")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if c.Name != "Acme Corp" {
		t.Errorf("Name = %q", c.Name)
	}
	if _, err := svc.Add(ctx, "u1", "ACME CORP"); err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if diff := cmp.Diff([]string{"Acme Corp"}, repo.lists["u1"]); diff != "" {
		t.Errorf("stored mismatch (-want +got):\n%s", diff)
	}
}

func TestAdd_UnknownCompany(t *testing.T) {
	svc, _ := newService()
	if _, err := svc.Add(context.Background(), "u1", "Nope Ltd"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	repo.lists["u1"] = []string{"Acme Corp", "Foo Inc"}

	if err := svc.Remove(ctx, "u1", "acme corp"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if diff := cmp.Diff([]string{"Foo Inc"}, repo.lists["u1"]); diff != "" {
		t.Errorf("stored mismatch (-want +got):\n%s", diff)
	}
	if err := svc.Remove(ctx, "u1", "Acme Corp"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCompanies_SkipsVanished(t *testing.T) {
	svc, repo := newService()
	repo.lists["u1"] = []string{"Gone Co", "Foo Inc"}

	got, err := svc.Companies(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Companies: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Foo Inc" {
		t.Errorf("got %+v", got)
	}
	ok, _ := svc.IsWatched(context.Background(), "u1", "foo inc")
	if !ok {
		t.Error("IsWatched() = false")
	}
}

func TestAdd_SaveError(t *testing.T) {
	svc, repo := newService()
	repo.saveErr = errors.New("boom")
	if _, err := svc.Add(context.Background(), "u1", "Foo Inc"); err == nil {
		t.Fatal("expected error")
	}
}
