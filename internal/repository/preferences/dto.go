package preferences

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/riskboard/internal/domain"
	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
)

// document is the persisted JSON layout.
type document struct {
	Display      map[string]int     `json:"display"`
	NewsSections []domprefs.Section `json:"news_sections"`
	CorpSections []domprefs.Section `json:"corp_sections"`
}

var viewKeys = map[domprefs.View]domprefs.Key{
	domprefs.ViewSearchResults: domprefs.KeySearchResultsPageSize,
	domprefs.ViewNewsTable:     domprefs.KeyNewsTablePageSize,
	domprefs.ViewCorpList:      domprefs.KeyCorpListPageSize,
}

func encode(p domprefs.Preferences) ([]byte, error) {
	doc := document{
		Display:      make(map[string]int, len(viewKeys)),
		NewsSections: p.NewsSections(),
		CorpSections: p.CorpSections(),
	}
	for v, k := range viewKeys {
		doc.Display[string(k)] = int(p.PageSize(v))
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal preferences: %w", err)
	}
	return b, nil
}

// decode never rejects partial documents; missing or invalid parts fall back
// to defaults inside domprefs.New.
func decode(b []byte) (domprefs.Preferences, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return domprefs.Preferences{}, fmt.Errorf("%w: unmarshal stored document: %w", domain.ErrInvalidPreference, err)
	}
	sizes := make(map[domprefs.View]domprefs.PageSize, len(viewKeys))
	for v, k := range viewKeys {
		if n, ok := doc.Display[string(k)]; ok {
			sizes[v] = domprefs.PageSize(n)
		}
	}
	return domprefs.New(sizes, doc.NewsSections, doc.CorpSections), nil
}
