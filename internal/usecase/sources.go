package usecase

import (
	"context"
	"fmt"

	"DailyInsights/internal/domain"
	"DailyInsights/internal/ports"
)

// FallbackSources serves stored sources and falls back to a static list
// when storage holds none.
type FallbackSources struct {
	primary  ports.SourceProvider
	fallback []domain.Source
}

var _ ports.SourceProvider = (*FallbackSources)(nil)

// NewFallbackSources wraps primary; primary may be nil.
func NewFallbackSources(primary ports.SourceProvider, fallback []domain.Source) *FallbackSources {
	return &FallbackSources{primary: primary, fallback: fallback}
}

// ActiveSources returns primary sources, or the fallback list if there are none.
func (s *FallbackSources) ActiveSources(ctx context.Context) ([]domain.Source, error) {
	if s.primary != nil {
		sources, err := s.primary.ActiveSources(ctx)
		if err != nil {
			return nil, fmt.Errorf("primary sources: %w", err)
		}
		if len(sources) > 0 {
			return sources, nil
		}
	}

	out := make([]domain.Source, 0, len(s.fallback))
	for _, src := range s.fallback {
		if src.URL == "" {
			continue
		}
		out = append(out, src)
	}
	return out, nil
}
