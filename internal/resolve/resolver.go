// Package resolve maps noisy country strings onto canonical names.
//
// A Resolver scores the input against every canonical name and keeps the
// single best candidate. Scores tie-break on first occurrence in the
// canonical list, so results are reproducible across runs and platforms.
// Inputs that score below the threshold pass through unchanged.
package resolve

import (
	"github.com/roach88/visadata/internal/textnorm"
)

// DefaultThreshold is the minimum score accepted as a match.
const DefaultThreshold = 85

// Match is the best candidate found for an input.
type Match struct {
	Name  string // canonical name, empty when nothing scored above zero
	Score int    // 0..100
	Index int    // position in the canonical list, -1 when Name is empty
}

// Resolver is immutable after New and safe for concurrent use.
type Resolver struct {
	names     []string
	folded    []string
	threshold int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThreshold overrides DefaultThreshold.
func WithThreshold(threshold int) Option {
	return func(r *Resolver) {
		r.threshold = threshold
	}
}

// New builds a resolver over names. The slice is copied.
func New(names []string, opts ...Option) *Resolver {
	r := &Resolver{
		names:     make([]string, len(names)),
		folded:    make([]string, len(names)),
		threshold: DefaultThreshold,
	}
	copy(r.names, names)
	for i, n := range r.names {
		r.folded[i] = textnorm.Fold(n)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Threshold returns the configured threshold.
func (r *Resolver) Threshold() int {
	return r.threshold
}

// Best returns the highest-scoring canonical name for input. Only a strictly
// greater score replaces the current best, which gives first-occurrence
// tie-breaking.
func (r *Resolver) Best(input string) Match {
	best := Match{Index: -1}
	q := textnorm.Fold(input)
	if q == "" {
		return best
	}
	for i, cand := range r.folded {
		s := scoreFolded(q, cand)
		if s > best.Score {
			best = Match{Name: r.names[i], Score: s, Index: i}
			if s == 100 {
				break
			}
		}
	}
	return best
}

// Resolve applies the configured threshold.
func (r *Resolver) Resolve(input string) string {
	return r.ResolveThreshold(input, r.threshold)
}

// ResolveThreshold returns the best canonical name when its score reaches
// threshold, otherwise input unchanged. A threshold above 100 never matches.
func (r *Resolver) ResolveThreshold(input string, threshold int) string {
	if input == "" {
		return input
	}
	m := r.Best(input)
	if m.Index < 0 || m.Score < threshold {
		return input
	}
	return m.Name
}
