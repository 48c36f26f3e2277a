package notifier

import (
	"errors"
	"strings"

	"Vaultium/internal/format"
	"Vaultium/internal/wallet"
)

// Tracker starts simulated confirmation tracking for a transaction.
type Tracker interface {
	Track(txID string) error
}

// NewCommandHandler answers chat commands against the wallet state.
func NewCommandHandler(m *wallet.Manager, tracker Tracker) CommandHandler {
	return func(command string) string {
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return ""
		}
		switch fields[0] {
		case "/rates":
			return FormatRates(m.View().Rates)
		case "/balance":
			return FormatBalance(m.View())
		case "/pending":
			return FormatPending(m.View())
		case "/track":
			if len(fields) < 2 {
				return "Usage: /track &lt;tx id&gt;"
			}
			err := tracker.Track(fields[1])
			switch {
			case err == nil:
				return "Tracking " + format.ShortHash(fields[1], 10)
			case errors.Is(err, wallet.ErrTxNotFound):
				return "No such transaction."
			case errors.Is(err, wallet.ErrNotPending):
				return "Transaction is not pending."
			default:
				return "Track failed: " + err.Error()
			}
		default:
			return "Commands:\n• /rates\n• /balance\n• /pending\n• /track &lt;tx id&gt;"
		}
	}
}
