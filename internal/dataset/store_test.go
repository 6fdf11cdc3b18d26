package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/riskboard/internal/domain"
)

const (
	newsCSV = "title,risklev\nAcme wins deal,High\nFoo slips,Low\n"
	corpCSV = "Company,Overall Risk Level\nAcme Corp,High\n"
)

type fakeFetcher struct {
	mu    sync.Mutex
	files map[string]string
	errs  map[string]error
	calls atomic.Int32
	gate  chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[src]; err != nil {
		return nil, err
	}
	return []byte(f.files[src]), nil
}

func (f *fakeFetcher) set(src, body string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[src] = body
	f.errs[src] = err
}

func newFake() *fakeFetcher {
	return &fakeFetcher{
		files: map[string]string{"news.csv": newsCSV, "corp.csv": corpCSV},
		errs:  map[string]error{},
	}
}

func testConfig() Config {
	return Config{NewsSource: "news.csv", CompanySource: "corp.csv", FetchTimeout: time.Second}
}

func TestStore_EmptyBeforeLoad(t *testing.T) {
	s := NewStore(testConfig(), newFake(), nil)
	if len(s.Snapshot().News()) != 0 {
		t.Error("expected empty snapshot")
	}
	if !errors.Is(s.Ready(context.Background()), domain.ErrDatasetUnavailable) {
		t.Error("expected ErrDatasetUnavailable before first load")
	}
}

func TestStore_Load(t *testing.T) {
	s := NewStore(testConfig(), newFake(), nil)
	if err := s.Load(context.Background(), TriggerStartup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := s.Snapshot()
	if len(snap.News()) != 2 || len(snap.Companies()) != 1 {
		t.Errorf("rows = %d/%d", len(snap.News()), len(snap.Companies()))
	}
	if err := s.Ready(context.Background()); err != nil {
		t.Errorf("Ready() = %v", err)
	}
	st := s.Status()
	if !st.Loaded || st.NewsRows != 2 || st.CompanyRows != 1 || st.LastError != "" {
		t.Errorf("status = %+v", st)
	}
}

func TestStore_FailedLoadKeepsPreviousSnapshot(t *testing.T) {
	f := newFake()
	s := NewStore(testConfig(), f, nil)
	if err := s.Load(context.Background(), TriggerStartup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := s.Snapshot()

	f.set("news.csv", "title\nOnly one\n", nil)
	f.set("corp.csv", "", errors.New("connection refused"))

	if err := s.Load(context.Background(), TriggerManual); err == nil {
		t.Fatal("expected error")
	}
	if s.Snapshot() != before {
		t.Error("snapshot replaced after a failed load")
	}
	if st := s.Status(); st.LastError == "" || !st.Loaded {
		t.Errorf("status = %+v", st)
	}
}

func TestStore_ConcurrentLoadsShareOneFetch(t *testing.T) {
	f := newFake()
	f.gate = make(chan struct{})
	s := NewStore(testConfig(), f, nil)

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Load(context.Background(), TriggerManual)
		}()
	}

	// Let every caller reach the in-flight check before releasing the fetch.
	time.Sleep(50 * time.Millisecond)
	if !s.Status().Loading {
		t.Error("expected Loading while fetch is blocked")
	}
	close(f.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if got := f.calls.Load(); got != 2 {
		t.Errorf("fetch calls = %d, want 2 (one per file)", got)
	}
}

func TestStore_LocalPaths(t *testing.T) {
	s := NewStore(Config{NewsSource: "file:///data/news.csv", CompanySource: "https://example.com/corp.csv"}, newFake(), nil)
	got := s.LocalPaths()
	if len(got) != 1 || got[0] != "/data/news.csv" {
		t.Errorf("LocalPaths() = %v", got)
	}
}
