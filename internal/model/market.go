package model

// Rate holds the simulated market price of an asset.
type Rate struct {
	Symbol    string  `json:"symbol"`
	Rate      float64 `json:"rate"`
	Change24h float64 `json:"change24h"`
}

// Up reports whether the 24h change is non-negative.
func (r Rate) Up() bool { return r.Change24h >= 0 }
