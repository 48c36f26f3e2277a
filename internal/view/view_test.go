package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"Vaultium/internal/collector"
	"Vaultium/internal/mockdata"
	"Vaultium/internal/model"
	"Vaultium/internal/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func newManager(t *testing.T) *wallet.Manager {
	t.Helper()
	gen := mockdata.New(mockdata.WithSeed(7), mockdata.WithClock(fixedNow))
	m := wallet.NewManager(gen)
	m.Load(collector.DefaultSnapshot(), gen.Generate(18))
	return m
}

func half() float64 { return 0.5 }

func TestModalHost_SingleOverlay(t *testing.T) {
	var h ModalHost
	assert.Nil(t, h.Active())

	h.Close()
	assert.Nil(t, h.Active())

	h.Open(Modal{Kind: ModalAddContract})
	h.Open(Modal{Kind: ModalAddAsset})
	require.NotNil(t, h.Active())
	assert.Equal(t, ModalAddAsset, h.Active().Kind)

	h.Click("card")
	assert.NotNil(t, h.Active())

	h.Click(Backdrop)
	assert.Nil(t, h.Active())
}

func TestModal_Pending(t *testing.T) {
	m := &Modal{Kind: ModalTx, Tx: model.Transaction{Status: model.StatusPending}}
	assert.True(t, m.Pending())

	m.Tracker = &model.Tracker{TxID: "x"}
	assert.False(t, m.Pending())

	m = &Modal{Kind: ModalTx, Tx: model.Transaction{Status: model.StatusConfirmed}}
	assert.False(t, m.Pending())
}

func TestDashboard(t *testing.T) {
	v := newManager(t).View()
	d := Dashboard(v)

	assert.True(t, d.Balance.Equal(decimal.NewFromInt(8000000)))
	assert.InDelta(t, 8000000*56000.0, d.USD, 1e-3)
	assert.Len(t, d.Recent, 5)
	assert.Equal(t, v.Txs[:5], d.Recent)
	require.Len(t, d.Mini, 3)
	assert.Equal(t, "BTC", d.Mini[0].Rate.Symbol)
	assert.True(t, d.Mini[0].Amount.Equal(decimal.NewFromInt(8000000)))
}

func TestTransactions_Filter(t *testing.T) {
	v := newManager(t).View()

	pending := Transactions(v, "pending")
	assert.Equal(t, "pending", pending.Filter)
	for _, tx := range pending.Txs {
		assert.Equal(t, model.StatusPending, tx.Status)
	}

	all := Transactions(v, "bogus")
	assert.Equal(t, "all", all.Filter)
	assert.Len(t, all.Txs, 18)
}

func TestBuildSparkline(t *testing.T) {
	s := BuildSparkline(nil, half)
	assert.True(t, s.Decorative)
	assert.Len(t, strings.Fields(s.Line), chartPoints)
	assert.False(t, s.HasAvg)

	s = BuildSparkline([]float64{100, 101, 102, 103, 104, 110}, half)
	assert.False(t, s.Decorative)
	assert.Len(t, strings.Fields(s.Line), 6)
	assert.Len(t, strings.Fields(s.Fill), 8)
	assert.True(t, s.HasAvg)
	assert.InDelta(t, 104.0, s.Avg, 1e-9)
	assert.InDelta(t, 10.0, s.Change, 1e-9)
	assert.Len(t, strings.Fields(s.AvgLine), 2)
	assert.Equal(t, "480.0,92.4 600.0,70.8", s.AvgLine)
}

func TestPortfolio(t *testing.T) {
	m := newManager(t)
	_, err := m.AddHolding("doge", decimal.NewFromInt(10))
	require.NoError(t, err)
	m.DriftRates(half)
	m.DriftRates(half)

	p := Portfolio(m.View(), half)
	require.Len(t, p.Cards, 4)
	assert.Equal(t, "DOGE", p.Cards[3].Holding.Symbol)
	assert.True(t, p.Cards[3].Priced)
	assert.False(t, p.Chart.Decorative)
}

func TestRenderer_AllPages(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	m := newManager(t)
	_, err = m.AddWatch("0xdeadbeefcafe", "")
	require.NoError(t, err)
	v := m.View()

	data := map[string]any{
		"dashboard":    Dashboard(v),
		"transactions": Transactions(v, "all"),
		"send":         NewSendData(),
		"smart":        SmartData{Entries: v.Watchlists},
		"portfolio":    Portfolio(v, half),
		"history":      nil,
		"settings":     nil,
		"search":       SearchData{Query: "zzz"},
	}
	for _, name := range Pages {
		var buf bytes.Buffer
		err := r.Render(&buf, Page{Name: name, Path: "/" + name, View: v, Load: LoadState{Status: LoadReady}, Data: data[name]})
		require.NoError(t, err, name)
		assert.Contains(t, buf.String(), "Vaultium", name)
	}
}

func TestRenderer_DashboardContent(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	v := newManager(t).View()

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Page{Name: "dashboard", Path: "/", View: v, Data: Dashboard(v)}))
	out := buf.String()

	assert.Contains(t, out, "8,000,000 BTC")
	assert.Contains(t, out, "$448,000,000,000")
	assert.Contains(t, out, "▲ 2.40% • 24h")
	assert.Contains(t, out, `data-rate="ETH"`)
}

func TestRenderer_ModalAndBanner(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	m := newManager(t)
	tx, err := m.Send(wallet.SendRequest{To: "0xrecipient0001", Amount: decimal.NewFromInt(3), Asset: "ETH"})
	require.NoError(t, err)
	v := m.View()

	var host ModalHost
	host.Open(Modal{Kind: ModalTx, Tx: tx})

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Page{
		Name:      "history",
		Path:      "/history",
		View:      v,
		Load:      LoadState{Status: LoadFailed, Error: "connection refused", Attempts: 3},
		Modal:     host.Active(),
		CloseHref: "/history",
	}))
	out := buf.String()
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "after 3 attempts")
	assert.Contains(t, out, `action="/track/`+tx.ID+`"`)
	assert.Equal(t, 1, strings.Count(out, `class="modal"`))
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	assert.Error(t, r.Render(&bytes.Buffer{}, Page{Name: "nope"}))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "green", StatusClass(model.StatusConfirmed))
	assert.Equal(t, "red", StatusClass(model.StatusFailed))
	assert.Equal(t, "muted", StatusClass(model.StatusPending))
}
