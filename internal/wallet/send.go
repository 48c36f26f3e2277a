package wallet

import (
	"strings"

	"Vaultium/internal/model"

	"github.com/shopspring/decimal"
)

// FeeRate is the flat fee estimate applied to sends.
var FeeRate = decimal.RequireFromString("0.001")

// SendRequest is a user's send form.
type SendRequest struct {
	To     string
	Amount decimal.Decimal
	Asset  string
	Note   string
}

// Preview is a validated send awaiting confirmation.
type Preview struct {
	To     string
	Amount decimal.Decimal
	Asset  string
	Fee    decimal.Decimal
}

// PreviewSend validates the request and computes the fee estimate. The
// amount is rounded to 6 decimals before validation.
func PreviewSend(req SendRequest) (Preview, error) {
	to := strings.TrimSpace(req.To)
	if to == "" {
		return Preview{}, ErrInvalidRecipient
	}
	// amounts are kept to 6 decimals, so anything smaller is no amount at all
	amount := req.Amount.Round(6)
	if !amount.IsPositive() {
		return Preview{}, ErrInvalidAmount
	}
	asset := strings.TrimSpace(req.Asset)
	if asset == "" {
		asset = "BTC"
	}
	return Preview{
		To:     to,
		Amount: amount,
		Asset:  asset,
		Fee:    amount.Mul(FeeRate),
	}, nil
}

// Send validates the request and prepends a new pending transaction.
func (m *Manager) Send(req SendRequest) (model.Transaction, error) {
	p, err := PreviewSend(req)
	if err != nil {
		return model.Transaction{}, err
	}
	tx := model.Transaction{
		ID:       m.gen.NewID(),
		Time:     m.gen.Now().UnixMilli(),
		Type:     model.TxSend,
		Coin:     p.Asset,
		Amount:   p.Amount,
		Status:   model.StatusPending,
		Fee:      p.Fee,
		To:       p.To,
		From:     m.gen.Address(),
		Explorer: "#",
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append([]model.Transaction{tx}, m.txs...)
	return tx, nil
}
