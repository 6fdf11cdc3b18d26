package riskboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
)

// Preference keys accepted by SetPreference and ResetPreference.
const (
	PrefSearchResultsPageSize = string(domprefs.KeySearchResultsPageSize)
	PrefNewsTablePageSize     = string(domprefs.KeyNewsTablePageSize)
	PrefCorpListPageSize      = string(domprefs.KeyCorpListPageSize)
	PrefNewsSections          = string(domprefs.KeyNewsSections)
	PrefCorpSections          = string(domprefs.KeyCorpSections)
)

// Preferences returns the stored settings, defaults filled in.
func (c *Client) Preferences(ctx context.Context) Preferences {
	start := time.Now()
	defer c.obs.observe("preferences_get", start, nil)

	return fromPreferences(c.prefsSvc.Get(ctx, c.profile))
}

// SetPreference stores one setting. value is JSON encoded: a page size is
// a number, a section list an array of sections.
func (c *Client) SetPreference(ctx context.Context, key string, value any) (_ Preferences, err error) {
	start := time.Now()
	defer func() { c.obs.observe("preferences_set", start, err) }()

	k, err := domprefs.ParseKey(key)
	if err != nil {
		return Preferences{}, err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return Preferences{}, fmt.Errorf("%w: encode value: %w", ErrInvalidPreference, err)
	}
	p, err := c.prefsSvc.Set(ctx, c.profile, k, raw)
	if err != nil {
		return Preferences{}, err
	}
	return fromPreferences(p), nil
}

// ResetPreference restores one setting to its default.
func (c *Client) ResetPreference(ctx context.Context, key string) (_ Preferences, err error) {
	start := time.Now()
	defer func() { c.obs.observe("preferences_reset", start, err) }()

	k, err := domprefs.ParseKey(key)
	if err != nil {
		return Preferences{}, err
	}
	p, err := c.prefsSvc.Reset(ctx, c.profile, k)
	if err != nil {
		return Preferences{}, err
	}
	return fromPreferences(p), nil
}
