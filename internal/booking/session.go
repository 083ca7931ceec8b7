package booking

import "github.com/iliyamo/flight-reservation/internal/model"

// Session is the state of one logical client: the logged in principal
// and the itineraries of its most recent search.  A Session is not safe
// for concurrent use; callers serving one session from several goroutines
// must serialize access.
type Session struct {
	username    string
	itineraries []model.Itinerary // indexed by handle
	broken      bool
}

// NewSession returns an anonymous session with an empty itinerary cache.
func NewSession() *Session { return &Session{} }

// Username returns the principal, or "" when nobody is logged in.
func (s *Session) Username() string { return s.username }

// LoggedIn reports whether a principal is bound.
func (s *Session) LoggedIn() bool { return s.username != "" }

// Broken reports whether a dangling transaction was detected while
// serving this session.  A broken session refuses every operation.
func (s *Session) Broken() bool { return s.broken }

// Itineraries returns a copy of the current itinerary cache in handle
// order.
func (s *Session) Itineraries() []model.Itinerary {
	out := make([]model.Itinerary, len(s.itineraries))
	copy(out, s.itineraries)
	return out
}

// Itinerary resolves handle against the current itinerary cache.
func (s *Session) Itinerary(handle int) (model.Itinerary, bool) {
	if handle < 0 || handle >= len(s.itineraries) {
		return model.Itinerary{}, false
	}
	return s.itineraries[handle], true
}

func (s *Session) bind(username string) { s.username = username }

func (s *Session) reset() {
	s.username = ""
	s.itineraries = nil
}

// replaceItineraries swaps in a new search result wholesale.
func (s *Session) replaceItineraries(its []model.Itinerary) {
	s.itineraries = its
}
