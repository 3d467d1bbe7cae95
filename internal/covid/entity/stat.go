package entity

import "time"

// CountryStat is one country's COVID-19 counters at fetch time.
//
// Values are created by the data provider and never mutated afterwards.
type CountryStat struct {
	Country   string    `json:"country"`
	Confirmed int64     `json:"confirmed"`
	Deaths    int64     `json:"deaths"`
	Recovered int64     `json:"recovered"`
	Active    int64     `json:"active"`
	Critical  int64     `json:"critical"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasBreakdown reports whether any of the ring chart counters is non-zero.
func (s CountryStat) HasBreakdown() bool {
	return s.Active != 0 || s.Critical != 0 || s.Deaths != 0 || s.Recovered != 0
}
