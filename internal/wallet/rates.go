package wallet

import (
	"math"

	"Vaultium/internal/model"
)

const minRate = 0.0001

// DriftRates perturbs every rate by a bounded random delta and redraws its
// 24h change. rnd must return values in [0, 1). It returns the updated rates
// in display order.
func (m *Manager) DriftRates(rnd func() float64) []model.Rate {
	m.mu.Lock()
	defer m.mu.Unlock()

	order := rateOrder(m.rates)
	out := make([]model.Rate, 0, len(order))
	for _, sym := range order {
		r := m.rates[sym]
		r.Rate = math.Max(minRate, r.Rate+(rnd()-0.48)*driftScale(sym))
		r.Change24h = round2(rnd()*4 - 2)
		m.rates[sym] = r

		h := append(m.history[sym], r.Rate)
		if len(h) > historySize {
			h = h[len(h)-historySize:]
		}
		m.history[sym] = h
		out = append(out, r)
	}
	return out
}

func driftScale(symbol string) float64 {
	if symbol == "BTC" {
		return 120
	}
	return 6
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
