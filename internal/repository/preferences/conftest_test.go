package preferences

import (
	"context"

	"github.com/kailas-cloud/riskboard/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMockStore() *mockStore { return &mockStore{data: map[string][]byte{}} }

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	b, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return b, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}
