package wallet

import (
	"strings"
	"time"

	"Vaultium/internal/model"

	"github.com/shopspring/decimal"
)

// View is an immutable copy of the state handed to renderers.
type View struct {
	Balances   map[string]decimal.Decimal
	Rates      []model.Rate // display order
	RateMap    map[string]model.Rate
	SimRates   map[string]model.Rate
	History    map[string][]float64
	Watchlists []model.WatchEntry
	Holdings   []model.Holding
	Txs        []model.Transaction
	Trackers   map[string]model.Tracker
	Notices    []model.Notice
	Now        time.Time
}

// View returns a deep copy of the current state.
func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		Balances:   make(map[string]decimal.Decimal, len(m.balances)),
		RateMap:    make(map[string]model.Rate, len(m.rates)),
		SimRates:   make(map[string]model.Rate, len(m.simRates)),
		History:    make(map[string][]float64, len(m.history)),
		Watchlists: append([]model.WatchEntry{}, m.watchlists...),
		Holdings:   append([]model.Holding{}, m.holdings...),
		Txs:        append([]model.Transaction{}, m.txs...),
		Trackers:   make(map[string]model.Tracker, len(m.trackers)),
		Notices:    append([]model.Notice{}, m.notices...),
		Now:        m.gen.Now(),
	}
	for k, b := range m.balances {
		v.Balances[k] = b
	}
	for _, sym := range rateOrder(m.rates) {
		v.Rates = append(v.Rates, m.rates[sym])
	}
	for k, r := range m.rates {
		v.RateMap[k] = r
	}
	for k, r := range m.simRates {
		v.SimRates[k] = r
	}
	for k, h := range m.history {
		v.History[k] = append([]float64(nil), h...)
	}
	for k, t := range m.trackers {
		v.Trackers[k] = t
	}
	return v
}

// Rate returns the market rate for symbol, falling back to a simulated one.
func (v View) Rate(symbol string) (model.Rate, bool) {
	if r, ok := v.RateMap[symbol]; ok {
		return r, true
	}
	r, ok := v.SimRates[symbol]
	return r, ok
}

// PrimaryBalance is the BTC balance.
func (v View) PrimaryBalance() decimal.Decimal {
	return v.Balances["BTC"]
}

// PrimaryUSD is the BTC balance valued at the current BTC rate.
func (v View) PrimaryUSD() float64 {
	r, ok := v.RateMap["BTC"]
	if !ok {
		return 0
	}
	return v.PrimaryBalance().InexactFloat64() * r.Rate
}

// HoldingUSD values a holding at its rate, zero when no rate is known.
func (v View) HoldingUSD(h model.Holding) float64 {
	r, ok := v.Rate(h.Symbol)
	if !ok {
		return 0
	}
	return h.Amount.InexactFloat64() * r.Rate
}

// Recent returns up to n newest transactions in collection order.
func (v View) Recent(n int) []model.Transaction {
	if n > len(v.Txs) {
		n = len(v.Txs)
	}
	return v.Txs[:n]
}

// Filter returns the transactions matching a status filter ("all" matches every one).
func (v View) Filter(filter string) []model.Transaction {
	status, all, ok := model.ParseStatusFilter(filter)
	if all {
		return v.Txs
	}
	out := []model.Transaction{}
	if !ok {
		return out
	}
	for _, tx := range v.Txs {
		if tx.Status == status {
			out = append(out, tx)
		}
	}
	return out
}

// FindTx looks up a transaction by ID.
func (v View) FindTx(id string) (model.Transaction, bool) {
	for _, tx := range v.Txs {
		if tx.ID == id {
			return tx, true
		}
	}
	return model.Transaction{}, false
}

// Search returns the first transaction whose id, sender or recipient contains q, case-insensitively.
func (v View) Search(q string) (model.Transaction, bool) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return model.Transaction{}, false
	}
	for _, tx := range v.Txs {
		if strings.Contains(strings.ToLower(tx.ID), q) ||
			strings.Contains(strings.ToLower(tx.From), q) ||
			strings.Contains(strings.ToLower(tx.To), q) {
			return tx, true
		}
	}
	return model.Transaction{}, false
}

// FindWatch looks up a watchlist entry by address.
func (v View) FindWatch(address string) (model.WatchEntry, bool) {
	for _, w := range v.Watchlists {
		if w.Address == address {
			return w, true
		}
	}
	return model.WatchEntry{}, false
}
