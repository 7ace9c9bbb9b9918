// Package retrieval answers fault-code lookups from the merged record set,
// with a cache in front of the merge.
package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/boilerbrain-ai/boilerbrain/internal/cache"
	"github.com/boilerbrain-ai/boilerbrain/internal/dataset"
	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
	"github.com/boilerbrain-ai/boilerbrain/internal/merge"
	"github.com/boilerbrain-ai/boilerbrain/internal/normalize"
	"github.com/boilerbrain-ai/boilerbrain/internal/observability"
)

// ErrFaultNotFound is returned when no merged record matches the query.
var ErrFaultNotFound = errors.New("fault not found")

// LookupQuery identifies a fault to look up. FaultCode is required.
type LookupQuery struct {
	Manufacturer string `json:"manufacturer"`
	FaultCode    string `json:"fault_code"`
	Model        string `json:"model"`
}

// LookupResult is a structured answer plus the record it came from.
type LookupResult struct {
	Manufacturer string                   `json:"manufacturer,omitempty"`
	Model        string                   `json:"model,omitempty"`
	FaultCode    string                   `json:"fault_code"`
	Answer       dataset.StructuredAnswer `json:"answer"`
}

// LookupConfig tunes the lookup service cache.
type LookupConfig struct {
	CacheTTL  time.Duration
	KeyPrefix string
}

// DefaultLookupConfig returns the default cache settings.
func DefaultLookupConfig() LookupConfig {
	return LookupConfig{
		CacheTTL:  15 * time.Minute,
		KeyPrefix: "lookup:",
	}
}

// LookupService resolves fault queries against the merged source tables.
type LookupService struct {
	logger   *observability.Logger
	provider merge.RowProvider
	cache    cache.Client
	cfg      LookupConfig
}

// NewLookupService creates a lookup service. The cache client may be nil, in
// which case every lookup merges fresh.
func NewLookupService(logger *observability.Logger, provider merge.RowProvider, c cache.Client, cfg LookupConfig) *LookupService {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "lookup:"
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 15 * time.Minute
	}

	return &LookupService{
		logger:   logger.WithComponent("retrieval"),
		provider: provider,
		cache:    c,
		cfg:      cfg,
	}
}

// Lookup normalizes the query the same way merge keys are built, then scans
// the merged record set for a match.
func (s *LookupService) Lookup(ctx context.Context, q LookupQuery) (*LookupResult, error) {
	code := normalize.FaultCode(q.FaultCode)
	if code == nil {
		return nil, domain.ValidationError("fault code is required", nil)
	}

	key := s.cacheKey(q, *code)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var cached LookupResult
			if err := json.Unmarshal(data, &cached); err == nil {
				s.logger.Debug().Str("key", key).Msg("Lookup cache hit")
				return &cached, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("Lookup cache read failed")
		}
	}

	records, err := merge.MergeFromProvider(s.provider)
	if err != nil {
		return nil, err
	}

	rec := s.match(records, q, *code)
	if rec == nil {
		return nil, ErrFaultNotFound
	}

	result := &LookupResult{
		Manufacturer: deref(rec.Manufacturer),
		Model:        deref(rec.Model),
		FaultCode:    *code,
		Answer:       dataset.Structured(rec),
	}

	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, data, s.cfg.CacheTTL); err != nil {
				s.logger.Warn().Err(err).Msg("Lookup cache write failed")
			}
		}
	}

	return result, nil
}

// match scans merged records for the query. Manufacturer and model narrow
// the match when given; fault code alone returns the first record carrying
// that code.
func (s *LookupService) match(records map[string]*domain.FaultRecord, q LookupQuery, code string) *domain.FaultRecord {
	manufacturer := strings.TrimSpace(q.Manufacturer)
	model := strings.TrimSpace(q.Model)

	var fallback *domain.FaultRecord
	for _, key := range merge.Keys(records) {
		rec := records[key]
		if rec.FaultCode == nil || *rec.FaultCode != code {
			continue
		}
		if manufacturer != "" && !strings.EqualFold(deref(rec.Manufacturer), manufacturer) {
			continue
		}
		if model != "" && !strings.EqualFold(deref(rec.Model), model) {
			continue
		}
		if manufacturer != "" || model != "" {
			return rec
		}
		if fallback == nil {
			fallback = rec
		}
	}
	return fallback
}

func (s *LookupService) cacheKey(q LookupQuery, code string) string {
	return fmt.Sprintf("%s%s|%s|%s",
		s.cfg.KeyPrefix,
		strings.ToLower(strings.TrimSpace(q.Manufacturer)),
		code,
		strings.ToLower(strings.TrimSpace(q.Model)))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
