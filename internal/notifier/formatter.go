package notifier

import (
	"fmt"
	"html"
	"strings"

	"Vaultium/internal/format"
	"Vaultium/internal/model"
	"Vaultium/internal/wallet"
)

// FormatConfirmed is the notice shown when a tracked transaction completes.
func FormatConfirmed(txID string) string {
	return "Transaction confirmed (simulated): " + format.ShortHash(txID, 10)
}

// QueuedNotice is the in-app notice shown after a send is queued.
func QueuedNotice(tx model.Transaction) string {
	return queued(tx, func(s string) string { return s })
}

// FormatQueued is QueuedNotice escaped for Telegram's HTML parse mode.
func FormatQueued(tx model.Transaction) string {
	return queued(tx, html.EscapeString)
}

func queued(tx model.Transaction, esc func(string) string) string {
	return fmt.Sprintf("Transaction queued (simulated): %s %s to %s",
		tx.Amount.String(), esc(tx.Coin), esc(format.ShortHash(tx.To, 10)))
}

// FormatRates lists every rate with its 24h change.
func FormatRates(rates []model.Rate) string {
	var b strings.Builder
	b.WriteString("<b>Rates</b>\n")
	for _, r := range rates {
		b.WriteString(fmt.Sprintf("%s  %s  %s\n", html.EscapeString(r.Symbol), format.USD(r.Rate), format.Change(r.Change24h)))
	}
	return b.String()
}

// FormatBalance summarises the primary balance.
func FormatBalance(v wallet.View) string {
	return fmt.Sprintf("<b>Balance</b>\n%s BTC\n%s",
		format.Decimal(v.PrimaryBalance(), 6), format.USD(v.PrimaryUSD()))
}

// FormatPending lists pending transactions and any tracker progress.
func FormatPending(v wallet.View) string {
	pending := v.Filter(string(model.StatusPending))
	if len(pending) == 0 {
		return "No pending transactions."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>Pending</b> (%d)\n", len(pending)))
	for _, tx := range pending {
		line := fmt.Sprintf("%s  %s %s", format.ShortHash(tx.ID, 10), tx.Amount.String(), html.EscapeString(tx.Coin))
		if tr, ok := v.Trackers[tx.ID]; ok {
			line += fmt.Sprintf("  tracking %.0f%%", tr.Progress)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
