// Package mockdata produces the simulated transactions and values shown by the dashboard.
package mockdata

import (
	"encoding/hex"
	"math/rand"
	"sort"
	"sync"
	"time"

	"Vaultium/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coins are the assets mock transactions are drawn from.
var Coins = []string{"BTC", "ETH", "BNB", "LTC", "BCH"}

const (
	minAge = int64(time.Hour / time.Millisecond)
	maxAge = int64(24 * time.Hour / time.Millisecond)

	base36 = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Generator is a seedable source of simulated data. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes the generator deterministic.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewSource(seed)) }
}

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator seeded from the wall clock unless WithSeed is given.
func New(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, o := range opts {
		o(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g
}

// Now returns the generator's current time.
func (g *Generator) Now() time.Time { return g.now() }

// Float64 returns a uniform value in [0, 1).
func (g *Generator) Float64() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

// NewID returns a fresh transaction identifier.
func (g *Generator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.newID()
}

// Address returns a random counterparty address.
func (g *Generator) Address() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.address()
}

// Generate returns n random transactions sorted newest first.
func (g *Generator) Generate(n int) []model.Transaction {
	if n < 0 {
		n = 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UnixMilli()
	txs := make([]model.Transaction, n)
	for i := range txs {
		txs[i] = model.Transaction{
			ID:       g.newID(),
			Time:     now - (minAge + g.rng.Int63n(maxAge-minAge+1)),
			Type:     model.TxTypes[g.rng.Intn(len(model.TxTypes))],
			Coin:     Coins[g.rng.Intn(len(Coins))],
			Amount:   decimal.NewFromFloat(g.rng.Float64() * 1000).Round(6),
			Status:   g.status(),
			Fee:      decimal.NewFromFloat(g.rng.Float64() * 0.01).Round(6),
			To:       g.address(),
			From:     g.address(),
			Explorer: "#",
		}
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Time > txs[j].Time })
	return txs
}

// ~14% failed; the rest split 40/60 between confirmed and pending.
func (g *Generator) status() model.TxStatus {
	if g.rng.Float64() <= 0.14 {
		return model.StatusFailed
	}
	if g.rng.Float64() > 0.6 {
		return model.StatusConfirmed
	}
	return model.StatusPending
}

func (g *Generator) newID() string {
	u, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// math/rand never fails to read
		panic(err)
	}
	return "0x" + hex.EncodeToString(u[:])
}

func (g *Generator) address() string {
	b := make([]byte, 14)
	for i := range b {
		b[i] = base36[g.rng.Intn(len(base36))]
	}
	return "0x" + string(b)
}
