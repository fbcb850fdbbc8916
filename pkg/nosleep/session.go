package nosleep

import (
	"context"

	"github.com/pevers/nosleep/internal/inhibit"
)

// session is one logical inhibition: the ordered set of lock tokens that
// together satisfy a single request, possibly spanning multiple
// facilities. Immutable after construction except for the one-shot
// consumption by releaseAll.
type session struct {
	kind   Kind
	tokens []inhibit.Token
}

func newSession(kind Kind, tokens []inhibit.Token) *session {
	return &session{kind: kind, tokens: tokens}
}

// releaseAll releases every token, continuing past individual failures so
// one stale token cannot pin the rest. The first error encountered is
// returned after all releases have been attempted.
func (s *session) releaseAll(ctx context.Context, backend inhibit.Backend, log Logger, metrics *Metrics) error {
	var first error
	for _, token := range s.tokens {
		if err := backend.Release(ctx, token); err != nil {
			metrics.IncrementReleaseFailures()
			log.Warn("release failed",
				"facility", string(token.Facility), "error", err)
			if first == nil {
				first = newReleaseError(string(token.Facility), err)
			}
			continue
		}
		metrics.IncrementReleases()
		log.Debug("released lock", "facility", string(token.Facility))
	}
	s.tokens = nil
	return first
}
