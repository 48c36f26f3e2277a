package model

import "github.com/shopspring/decimal"

// Snapshot is the baseline state document served by the state endpoint.
type Snapshot struct {
	Balances   map[string]decimal.Decimal `json:"balances"`
	Rates      map[string]Rate            `json:"rates"`
	Watchlists []WatchEntry               `json:"watchlists"`
	Holdings   []Holding                  `json:"holdings"`
	Txs        []Transaction              `json:"txs"`
	Trackers   map[string]Tracker         `json:"trackers"`
}

// Normalize replaces nil collections with empty ones so the document
// always encodes as objects and arrays.
func (s *Snapshot) Normalize() {
	if s.Balances == nil {
		s.Balances = map[string]decimal.Decimal{}
	}
	if s.Rates == nil {
		s.Rates = map[string]Rate{}
	}
	if s.Watchlists == nil {
		s.Watchlists = []WatchEntry{}
	}
	if s.Holdings == nil {
		s.Holdings = []Holding{}
	}
	if s.Txs == nil {
		s.Txs = []Transaction{}
	}
	if s.Trackers == nil {
		s.Trackers = map[string]Tracker{}
	}
}
