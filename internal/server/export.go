package server

import (
	"encoding/csv"
	"log"
	"net/http"

	"Vaultium/internal/format"
)

const exportFilename = "vaultium-txs.csv"

var exportHeader = []string{"id", "type", "coin", "amount", "time", "status"}

// exportCSV downloads every transaction, one row each, in collection order.
func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	txs := s.Wallet.View().Txs

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		log.Printf("[ERROR] write csv: %v", err)
		return
	}
	for _, tx := range txs {
		row := []string{tx.ID, string(tx.Type), tx.Coin, tx.Amount.String(), format.ISOTime(tx.Time), string(tx.Status)}
		if err := cw.Write(row); err != nil {
			log.Printf("[ERROR] write csv: %v", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("[ERROR] flush csv: %v", err)
	}
}
