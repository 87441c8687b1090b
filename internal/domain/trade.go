package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade represents a matched execution between a bid and an ask order.
// Trades are values; the book hands out copies and never mutates them.
type Trade struct {
	TradeID     uint64
	BuyOrderID  uint64
	SellOrderID uint64
	Price       decimal.Decimal
	Quantity    int64
	ExecutedAt  time.Time
}

// Notional returns price × quantity.
func (t Trade) Notional() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}

// String prints the price with one decimal more than DefaultPriceScale,
// enough for the midpoint of two prices at that scale.
func (t Trade) String() string {
	return t.Format(DefaultPriceScale + 1)
}

// Format renders the trade with its price fixed to scale decimals.
func (t Trade) Format(scale int32) string {
	return fmt.Sprintf("TRADE[id=%d, buyOrder=%d, sellOrder=%d, %d @ $%s]",
		t.TradeID, t.BuyOrderID, t.SellOrderID, t.Quantity, t.Price.StringFixed(scale))
}
