package analysis

import (
	"context"
	"time"

	"github.com/kailas-cloud/riskboard/internal/dataset"
	"github.com/kailas-cloud/riskboard/internal/db"
	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

// --- Mocks ---

type mockCompleter struct {
	result domain.CompletionResult
	err    error
	got    []domain.CompletionRequest
}

func (m *mockCompleter) Complete(_ context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	m.got = append(m.got, req)
	return m.result, m.err
}

type staticData struct{ snap *dataset.Snapshot }

func (d staticData) Snapshot() *dataset.Snapshot { return d.snap }

type memStore struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

type mockBudget struct {
	checkErr error
	recorded int64
}

func (m *mockBudget) Check(context.Context) error { return m.checkErr }
func (m *mockBudget) Record(tokens int64) { m.recorded += tokens }
func (m *mockBudget) RemainingDaily() int64 { return -1 }
func (m *mockBudget) RemainingMonthly() int64 { return -1 }

func fixture() *dataset.Snapshot {
	news := []record.News{
		record.NewsFromRecord(0, record.Record{
			record.ColTitle:           "Acme fined by regulator",
			record.ColTime:            "2024-02-01",
			record.ColCompany:         "['Acme Corp']",
			record.ColRiskLevel:       "High",
			record.ColRiskTypes:       "['Legal']",
			record.ColSummary:         "Regulator imposes penalty.",
			record.ColSourceLevel:     "A",
			record.ColRiskExplanation: "Large fine relative to earnings.",
		}),
		record.NewsFromRecord(1, record.Record{
			record.ColTitle:   "Acme opens new plant",
			record.ColTime:    "2024-03-01",
			record.ColCompany: "Acme Corp",
		}),
	}
	companies := []record.Company{
		record.CompanyFromRecord(record.Record{
			record.ColCompanyName: "Acme Corp",
			record.ColOverallRisk: "High",
			record.ColRiskSummary: "Regulatory pressure.",
		}),
	}
	return dataset.NewSnapshot(news, companies, time.Now())
}
