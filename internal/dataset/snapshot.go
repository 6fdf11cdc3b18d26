// Package dataset loads the news and company CSV files and serves them as an
// immutable, atomically replaced snapshot.
package dataset

import (
	"strings"
	"time"

	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

// Snapshot is one complete, immutable load of both files.
type Snapshot struct {
	news      []record.News
	companies []record.Company
	newsByID  map[int]int
	byName    map[string]int
	loadedAt  time.Time
}

// NewSnapshot indexes news and companies. Later duplicates of a company name
// are ignored.
func NewSnapshot(news []record.News, companies []record.Company, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		news:      news,
		companies: companies,
		newsByID:  make(map[int]int, len(news)),
		byName:    make(map[string]int, len(companies)),
		loadedAt:  loadedAt,
	}
	for i, n := range news {
		s.newsByID[n.ID] = i
	}
	for i, c := range companies {
		key := nameKey(c.Name)
		if _, dup := s.byName[key]; !dup {
			s.byName[key] = i
		}
	}
	return s
}

func emptySnapshot() *Snapshot { return NewSnapshot(nil, nil, time.Time{}) }

// News returns the news rows in file order. Callers must not modify the slice.
func (s *Snapshot) News() []record.News { return s.news }

// Companies returns the company rows in file order. Callers must not modify the slice.
func (s *Snapshot) Companies() []record.Company { return s.companies }

// LoadedAt is the time the snapshot was built; zero before the first load.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// NewsByID returns the news row with file row index id.
func (s *Snapshot) NewsByID(id int) (record.News, bool) {
	i, ok := s.newsByID[id]
	if !ok {
		return record.News{}, false
	}
	return s.news[i], true
}

// Company looks a company up by name, ignoring case and surrounding space.
func (s *Snapshot) Company(name string) (record.Company, bool) {
	i, ok := s.byName[nameKey(name)]
	if !ok {
		return record.Company{}, false
	}
	return s.companies[i], true
}

// LinkedCompanies returns the companies mentioned by n that exist in the
// company file, in mention order.
func (s *Snapshot) LinkedCompanies(n record.News) []record.Company {
	var out []record.Company
	seen := make(map[string]struct{})
	for _, name := range n.CompanyList() {
		c, ok := s.Company(name)
		if !ok {
			continue
		}
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, c)
	}
	return out
}

// NewsAbout returns the news rows mentioning company name.
func (s *Snapshot) NewsAbout(name string) []record.News {
	key := nameKey(name)
	var out []record.News
	for _, n := range s.news {
		for _, c := range n.CompanyList() {
			if nameKey(c) == key {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

func nameKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }
