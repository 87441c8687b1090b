// Package render formats order book snapshots as human-readable text.
package render

import (
	"fmt"
	"io"

	"github.com/efreitasn/clob/internal/engine"
)

// Book writes snapshot as a text dump: asks lowest price first, the
// spread, bids highest price first, then the aggregate counters. scale
// is the number of decimals printed for prices.
func Book(w io.Writer, snap engine.Snapshot, scale int32) error {
	p := &printer{w: w}

	p.printf("\n=== ORDER BOOK %s ===\n", snap.Symbol)

	p.printf("ASKS (Sellers):\n")
	for _, level := range snap.Asks {
		p.printf("  $%s -> %d shares (%d orders)\n",
			level.Price.StringFixed(scale), level.TotalQuantity, level.OrderCount)
	}

	if snap.Spread.Valid {
		p.printf("--- SPREAD: $%s ---\n", snap.Spread.Decimal.StringFixed(scale))
	} else {
		p.printf("--- NO SPREAD (one side is empty) ---\n")
	}

	p.printf("BIDS (Buyers):\n")
	for _, level := range snap.Bids {
		p.printf("  $%s -> %d shares (%d orders)\n",
			level.Price.StringFixed(scale), level.TotalQuantity, level.OrderCount)
	}

	p.printf("\n=== STATISTICS ===\n")
	p.printf("Total Orders: %d\n", snap.Stats.TotalOrders)
	p.printf("Total Trades: %d\n", snap.Stats.TradeCount)
	p.printf("Total Volume: %d shares\n", snap.Stats.TotalVolume)
	p.printf("Total Notional: $%s\n", snap.Stats.TotalNotional.StringFixed(scale))
	if snap.MidPrice.Valid {
		p.printf("Mid Price: $%s\n", snap.MidPrice.Decimal.StringFixed(scale+1))
	}

	return p.err
}

// printer keeps the first write error so callers check it once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
