// Package wallet owns the application state. Every mutation goes through a
// Manager method; readers get deep copies via View.
package wallet

import (
	"sort"
	"strings"
	"sync"

	"Vaultium/internal/mockdata"
	"Vaultium/internal/model"

	"github.com/shopspring/decimal"
)

const (
	historySize = 60
	noticeLimit = 20
)

// Manager is the single writer of the wallet state. Safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	balances   map[string]decimal.Decimal
	rates      map[string]model.Rate
	simRates   map[string]model.Rate // for holdings without a market rate
	history    map[string][]float64
	watchlists []model.WatchEntry
	holdings   []model.Holding
	txs        []model.Transaction
	trackers   map[string]model.Tracker
	notices    []model.Notice

	gen *mockdata.Generator
}

// NewManager creates an empty Manager. Call Load to populate it.
func NewManager(gen *mockdata.Generator) *Manager {
	m := &Manager{gen: gen}
	m.reset(&model.Snapshot{})
	return m
}

// Load replaces the state with the baseline snapshot. A non-nil txs replaces
// the snapshot's transactions.
func (m *Manager) Load(snap *model.Snapshot, txs []model.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset(snap)
	if txs != nil {
		m.txs = append([]model.Transaction(nil), txs...)
	}
	m.pruneTrackers()
}

func (m *Manager) reset(snap *model.Snapshot) {
	s := *snap
	s.Normalize()

	m.balances = make(map[string]decimal.Decimal, len(s.Balances))
	for k, v := range s.Balances {
		m.balances[k] = v
	}
	m.rates = make(map[string]model.Rate, len(s.Rates))
	m.history = make(map[string][]float64, len(s.Rates))
	for k, r := range s.Rates {
		if r.Symbol == "" {
			r.Symbol = k
		}
		m.rates[k] = r
		m.history[k] = []float64{r.Rate}
	}
	m.simRates = map[string]model.Rate{}
	m.watchlists = append([]model.WatchEntry(nil), s.Watchlists...)
	m.holdings = append([]model.Holding(nil), s.Holdings...)
	m.txs = append([]model.Transaction(nil), s.Txs...)
	m.trackers = make(map[string]model.Tracker, len(s.Trackers))
	for k, v := range s.Trackers {
		m.trackers[k] = v
	}
	m.notices = nil
}

// Snapshot returns the state document served by the state endpoint.
func (m *Manager) Snapshot() model.Snapshot {
	v := m.View()
	snap := model.Snapshot{
		Balances:   v.Balances,
		Rates:      v.RateMap,
		Watchlists: v.Watchlists,
		Holdings:   v.Holdings,
		Txs:        v.Txs,
		Trackers:   v.Trackers,
	}
	snap.Normalize()
	return snap
}

// AddWatch appends a contract to the watchlist. An empty label defaults to
// the first 8 characters of the address.
func (m *Manager) AddWatch(address, label string) (model.WatchEntry, error) {
	address = strings.TrimSpace(address)
	label = strings.TrimSpace(label)
	if address == "" {
		return model.WatchEntry{}, ErrInvalidAddress
	}
	if label == "" {
		label = address
		if len(label) > 8 {
			label = label[:8]
		}
	}
	entry := model.WatchEntry{
		Address: address,
		Label:   label,
		Chain:   "EVM",
		Added:   m.gen.Now().UnixMilli(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchlists = append(m.watchlists, entry)
	return entry, nil
}

// RemoveWatch drops every watchlist entry with the given address.
func (m *Manager) RemoveWatch(address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.watchlists[:0]
	removed := false
	for _, w := range m.watchlists {
		if w.Address == address {
			removed = true
			continue
		}
		kept = append(kept, w)
	}
	m.watchlists = kept
	if !removed {
		return ErrWatchNotFound
	}
	return nil
}

// ContractInsight is the simulated on-chain view of a watched contract.
type ContractInsight struct {
	Entry   model.WatchEntry
	Balance float64
	Events  []float64 // transfer sizes
}

// InspectWatch simulates a balance and three recent transfer events for a watched contract.
func (m *Manager) InspectWatch(address string) (ContractInsight, error) {
	m.mu.Lock()
	var (
		entry model.WatchEntry
		found bool
	)
	for _, w := range m.watchlists {
		if w.Address == address {
			entry, found = w, true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return ContractInsight{}, ErrWatchNotFound
	}

	in := ContractInsight{Entry: entry, Balance: m.gen.Float64() * 10000}
	for i := 0; i < 3; i++ {
		in.Events = append(in.Events, m.gen.Float64()*100)
	}
	return in, nil
}

// AddHolding appends a holding. The symbol is upper-cased.
func (m *Manager) AddHolding(symbol string, amount decimal.Decimal) (model.Holding, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.Holding{}, ErrInvalidSymbol
	}
	if !amount.IsPositive() {
		return model.Holding{}, ErrInvalidAmount
	}
	h := model.Holding{Symbol: symbol, Amount: amount}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdings = append(m.holdings, h)
	if _, ok := m.rates[symbol]; !ok {
		if _, ok := m.simRates[symbol]; !ok {
			m.simRates[symbol] = model.Rate{
				Symbol:    symbol,
				Rate:      m.gen.Float64() * 1000,
				Change24h: round2(m.gen.Float64()*3 - 1),
			}
		}
	}
	return h, nil
}

// MoveHoldingToFront moves the first holding with the given symbol to index 0.
func (m *Manager) MoveHoldingToFront(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, h := range m.holdings {
		if h.Symbol == symbol {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrHoldingNotFound
	}
	item := m.holdings[idx]
	copy(m.holdings[1:idx+1], m.holdings[:idx])
	m.holdings[0] = item
	return nil
}

// AddNotice records a user-facing notice, keeping the most recent ones.
func (m *Manager) AddNotice(kind model.NoticeKind, text string) model.Notice {
	n := model.Notice{Time: m.gen.Now().UnixMilli(), Kind: kind, Text: text}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, n)
	if len(m.notices) > noticeLimit {
		m.notices = m.notices[len(m.notices)-noticeLimit:]
	}
	return n
}

// rateOrder lists rate symbols with the well-known coins first.
func rateOrder(rates map[string]model.Rate) []string {
	order := make([]string, 0, len(rates))
	for _, c := range mockdata.Coins {
		if _, ok := rates[c]; ok {
			order = append(order, c)
		}
	}
	var rest []string
	for k := range rates {
		if !contains(mockdata.Coins, k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
