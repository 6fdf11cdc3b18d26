package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// maxBodyBytes bounds a fetched CSV resource.
const maxBodyBytes = 64 << 20

// IsRemote reports whether src is an HTTP(S) URL.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// LocalPath returns the filesystem path of a file source.
func LocalPath(src string) string { return strings.TrimPrefix(src, "file://") }

// Fetcher retrieves a CSV resource by location.
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// SourceFetcher reads HTTP(S) URLs with client and anything else from disk.
type SourceFetcher struct {
	client *http.Client
	limit  int64
}

// NewSourceFetcher creates a fetcher. A nil client uses http.DefaultClient.
func NewSourceFetcher(client *http.Client) *SourceFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &SourceFetcher{client: client, limit: maxBodyBytes}
}

// Fetch returns the full body of src in one round trip.
func (f *SourceFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if !IsRemote(src) {
		file, err := os.Open(LocalPath(src))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", src, err)
		}
		defer func() { _ = file.Close() }()
		return f.readAll(file, src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", src, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", src, resp.StatusCode)
	}
	return f.readAll(resp.Body, src)
}

// readAll reads r whole. A resource larger than the limit is an error, never
// a truncated body, so a partial file cannot replace the snapshot.
func (f *SourceFetcher) readAll(r io.Reader, src string) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, f.limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	if int64(len(b)) > f.limit {
		return nil, fmt.Errorf("read %s: body exceeds %d bytes", src, f.limit)
	}
	return b, nil
}
