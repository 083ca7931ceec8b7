package model

// Flight mirrors a row of the `flights` table.  Flights are reference
// data loaded outside of the booking core; the only column the core ever
// writes is Capacity, which is decremented when a seat is sold.
type Flight struct {
	ID              int    `json:"fid"`              // flights.fid
	DayOfMonth      int    `json:"day_of_month"`     // flights.day_of_month
	Carrier         string `json:"carrier"`          // flights.carrier_id
	FlightNumber    string `json:"flight_num"`       // flights.flight_num
	OriginCity      string `json:"origin_city"`      // flights.origin_city
	DestCity        string `json:"dest_city"`        // flights.dest_city
	DurationMinutes int    `json:"duration_minutes"` // flights.actual_time
	Capacity        int    `json:"capacity"`         // flights.capacity (remaining seats)
	Price           int    `json:"price"`            // flights.price
	Canceled        bool   `json:"canceled"`         // flights.canceled
}
