package booking

import (
	"context"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// Search looks up itineraries for q and stores them in the session's
// itinerary cache under handles 0..n-1, replacing the previous result even
// when nothing matches.  Direct flights come first; when fewer than
// q.MaxResults were found and q.DirectOnly is false, two-leg connections
// fill the remainder.  An empty result is reported as KindNoMatch.
// Searching does not require a principal.
func (e *Engine) Search(ctx context.Context, s *Session, q model.SearchQuery) ([]model.Itinerary, error) {
	const op = "search"
	if err := e.guard(op, s, false); err != nil {
		return nil, err
	}
	its, err := e.lookup(ctx, q)
	if err != nil {
		s.replaceItineraries(nil)
		return nil, e.failure(op, KindSearchFailed, s, err)
	}
	s.replaceItineraries(its)
	if len(its) == 0 {
		return its, fail(op, KindNoMatch)
	}
	out := make([]model.Itinerary, len(its))
	copy(out, its)
	return out, nil
}

func (e *Engine) lookup(ctx context.Context, q model.SearchQuery) ([]model.Itinerary, error) {
	if q.MaxResults <= 0 {
		return []model.Itinerary{}, nil
	}
	if e.cache != nil {
		if its, ok := e.cache.Get(ctx, q); ok {
			return renumber(its), nil
		}
	}

	direct, err := e.flights.SearchDirect(ctx, q.Origin, q.Dest, q.DayOfMonth, q.MaxResults)
	if err != nil {
		return nil, err
	}
	its := make([]model.Itinerary, 0, q.MaxResults)
	for _, f := range direct {
		its = append(its, model.NewDirect(len(its), f))
	}
	if remaining := q.MaxResults - len(its); remaining > 0 && !q.DirectOnly {
		conns, err := e.flights.SearchConnecting(ctx, q.Origin, q.Dest, q.DayOfMonth, remaining)
		if err != nil {
			return nil, err
		}
		for _, c := range conns {
			its = append(its, model.NewConnecting(len(its), c.First, c.Second))
		}
	}

	if e.cache != nil {
		e.cache.Set(ctx, q, its)
	}
	return its, nil
}

// renumber reassigns handles in slice order; cached results are trusted
// for content but not for their handle numbering.
func renumber(its []model.Itinerary) []model.Itinerary {
	for i := range its {
		its[i].Handle = i
	}
	return its
}
