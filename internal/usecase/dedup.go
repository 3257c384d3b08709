package usecase

import (
	"context"

	"DailyInsights/internal/domain"
	"DailyInsights/internal/ports"
)

// DedupGate answers whether a document url is already stored. Known urls
// are loaded in one lookup before the run loop; urls stored during the run
// are marked so a repeated url in the same batch is skipped too.
type DedupGate struct {
	known map[string]bool
}

// NewDedupGate loads the stored urls among docs.
func NewDedupGate(ctx context.Context, repo ports.InsightRepository, docs []domain.ScrapedDocument) (*DedupGate, error) {
	gate := &DedupGate{known: map[string]bool{}}
	if repo == nil || len(docs) == 0 {
		return gate, nil
	}

	urls := make([]string, 0, len(docs))
	for _, doc := range docs {
		urls = append(urls, doc.URL)
	}

	existing, err := repo.ExistingURLs(ctx, urls)
	if err != nil {
		return nil, err
	}
	for url, ok := range existing {
		if ok {
			gate.known[url] = true
		}
	}
	return gate, nil
}

// Seen reports whether url is already stored.
func (g *DedupGate) Seen(url string) bool {
	return g.known[url]
}

// Mark records url as stored.
func (g *DedupGate) Mark(url string) {
	g.known[url] = true
}
