package model

// NoLeg is the flight ID stored in an itinerary's second leg when the
// itinerary is a direct flight.
const NoLeg = -1

// Itinerary is one search result held in a session's itinerary cache.
// It is never persisted: the handle is only meaningful until the next
// search or logout of the session that produced it.
type Itinerary struct {
	Handle          int     `json:"itinerary"`
	LegOne          Flight  `json:"leg_one"`
	LegTwo          *Flight `json:"leg_two,omitempty"`
	TotalPrice      int     `json:"total_price"`
	DayOfMonth      int     `json:"day_of_month"`
	DurationMinutes int     `json:"duration_minutes"`
}

// Direct reports whether the itinerary consists of a single flight.
func (it Itinerary) Direct() bool { return it.LegTwo == nil }

// LegTwoID returns the second leg's flight ID or NoLeg.
func (it Itinerary) LegTwoID() int {
	if it.LegTwo == nil {
		return NoLeg
	}
	return it.LegTwo.ID
}

// Legs returns the flights of the itinerary in travel order.
func (it Itinerary) Legs() []Flight {
	if it.LegTwo == nil {
		return []Flight{it.LegOne}
	}
	return []Flight{it.LegOne, *it.LegTwo}
}

// NewDirect builds a one-leg itinerary.
func NewDirect(handle int, f Flight) Itinerary {
	return Itinerary{
		Handle:          handle,
		LegOne:          f,
		TotalPrice:      f.Price,
		DayOfMonth:      f.DayOfMonth,
		DurationMinutes: f.DurationMinutes,
	}
}

// NewConnecting builds a two-leg itinerary.  The price is the sum of the
// legs' prices at search time.
func NewConnecting(handle int, first, second Flight) Itinerary {
	return Itinerary{
		Handle:          handle,
		LegOne:          first,
		LegTwo:          &second,
		TotalPrice:      first.Price + second.Price,
		DayOfMonth:      first.DayOfMonth,
		DurationMinutes: first.DurationMinutes + second.DurationMinutes,
	}
}

// SearchQuery holds the arguments of one itinerary search.
type SearchQuery struct {
	Origin     string `json:"origin" query:"origin"`
	Dest       string `json:"dest" query:"dest"`
	DirectOnly bool   `json:"direct_only" query:"direct_only"`
	DayOfMonth int    `json:"day" query:"day"`
	MaxResults int    `json:"max" query:"max"`
}
