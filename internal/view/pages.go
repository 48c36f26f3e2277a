package view

import (
	"Vaultium/internal/mockdata"
	"Vaultium/internal/model"
	"Vaultium/internal/wallet"

	"github.com/shopspring/decimal"
)

// LoadStatus is the state of the initial snapshot fetch.
type LoadStatus string

const (
	LoadLoading LoadStatus = "loading"
	LoadReady   LoadStatus = "ready"
	LoadFailed  LoadStatus = "failed"
)

// LoadState is shown as a banner while loading or after a failed load.
type LoadState struct {
	Status   LoadStatus
	Error    string
	Attempts int
}

// Page is the data every template receives.
type Page struct {
	Name      string // route name, selects the content template
	Path      string
	Title     string
	View      wallet.View
	Load      LoadState
	Modal     *Modal
	CloseHref string
	Flash     string
	FlashErr  bool
	Query     string
	Data      any
}

// NavItem is a sidebar link.
type NavItem struct {
	Name, Path, Label string
}

// Nav lists the sidebar routes in display order.
var Nav = []NavItem{
	{"dashboard", "/", "Dashboard"},
	{"transactions", "/transactions", "Transactions"},
	{"send", "/send", "Send"},
	{"smart", "/smart", "Smart Contracts"},
	{"portfolio", "/portfolio", "Portfolio"},
	{"history", "/history", "History"},
	{"settings", "/settings", "Settings"},
}

// DashboardData backs the dashboard page.
type DashboardData struct {
	Balance decimal.Decimal
	USD     float64
	Rates   []model.Rate
	Recent  []model.Transaction
	Mini    []MiniAsset
}

// MiniAsset is one card of the dashboard's portfolio strip.
type MiniAsset struct {
	Rate   model.Rate
	Amount decimal.Decimal
	Value  float64
}

// Dashboard summarises balance, rates, the five newest transactions and the
// first three assets.
func Dashboard(v wallet.View) DashboardData {
	d := DashboardData{
		Balance: v.PrimaryBalance(),
		USD:     v.PrimaryUSD(),
		Rates:   v.Rates,
		Recent:  v.Recent(5),
	}
	for i, r := range v.Rates {
		if i == 3 {
			break
		}
		amt := held(v, r.Symbol)
		d.Mini = append(d.Mini, MiniAsset{Rate: r, Amount: amt, Value: amt.InexactFloat64() * r.Rate})
	}
	return d
}

func held(v wallet.View, symbol string) decimal.Decimal {
	sum := decimal.Zero
	for _, h := range v.Holdings {
		if h.Symbol == symbol {
			sum = sum.Add(h.Amount)
		}
	}
	return sum
}

// TransactionsData backs the transactions table.
type TransactionsData struct {
	Filter  string
	Filters []string
	Txs     []model.Transaction
}

// Transactions filters the table by status; unknown filters show all.
func Transactions(v wallet.View, filter string) TransactionsData {
	if _, _, ok := model.ParseStatusFilter(filter); !ok {
		filter = "all"
	}
	return TransactionsData{
		Filter:  filter,
		Filters: []string{"all", string(model.StatusPending), string(model.StatusConfirmed), string(model.StatusFailed)},
		Txs:     v.Filter(filter),
	}
}

// SendData backs the send form and its preview.
type SendData struct {
	To      string
	Amount  string
	Asset   string
	Note    string
	Assets  []string
	Error   string
	Preview *wallet.Preview
}

// NewSendData returns an empty form.
func NewSendData() SendData {
	return SendData{Asset: "BTC", Assets: mockdata.Coins}
}

// SmartData backs the contract watchlist.
type SmartData struct {
	Entries []model.WatchEntry
}

// PortfolioData backs the holdings grid.
type PortfolioData struct {
	Cards []HoldingCard
	Total float64
	Chart Sparkline
}

// HoldingCard is one holding valued at its rate.
type HoldingCard struct {
	Holding model.Holding
	Rate    model.Rate
	Priced  bool
	Value   float64
}

// Portfolio values every holding and charts the BTC rate history. The total
// is the BTC balance at the BTC rate.
func Portfolio(v wallet.View, noise func() float64) PortfolioData {
	p := PortfolioData{
		Total: v.PrimaryUSD(),
		Chart: BuildSparkline(v.History["BTC"], noise),
	}
	for _, h := range v.Holdings {
		r, ok := v.Rate(h.Symbol)
		p.Cards = append(p.Cards, HoldingCard{Holding: h, Rate: r, Priced: ok, Value: v.HoldingUSD(h)})
	}
	return p
}

// SearchData backs the search results page.
type SearchData struct {
	Query string
	Found bool
}

// StatusClass maps a transaction status to its colour class.
func StatusClass(s model.TxStatus) string {
	switch s {
	case model.StatusConfirmed:
		return "green"
	case model.StatusFailed:
		return "red"
	}
	return "muted"
}
