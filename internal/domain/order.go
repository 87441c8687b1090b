package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPriceScale is the number of decimals used when an order is
// printed without an explicit scale.
const DefaultPriceScale int32 = 2

// Side indicates whether an order is a bid (buy) or ask (sell).
type Side string

const (
	SideBid Side = "BID"
	SideAsk Side = "ASK"
)

// ParseSide converts a case-insensitive "bid"/"buy" or "ask"/"sell" token
// into a Side.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "bid", "buy":
		return SideBid, nil
	case "ask", "sell":
		return SideAsk, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSide, s)
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBid {
		return SideAsk
	}
	return SideBid
}

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusNew         Status = "NEW"
	StatusActive      Status = "ACTIVE"
	StatusPartialFill Status = "PARTIAL_FILL"
	StatusFilled      Status = "FILLED"
	StatusCancelled   Status = "CANCELLED"
)

// Terminal reports whether no further mutation is allowed in this state.
func (s Status) Terminal() bool {
	return s == StatusFilled || s == StatusCancelled
}

// Resting reports whether an order in this state sits on the book.
func (s Status) Resting() bool {
	return s == StatusActive || s == StatusPartialFill
}

// Order is a plain limit order. Seq is a strictly increasing arrival
// sequence used only to break price ties.
type Order struct {
	ID                uint64
	Seq               uint64
	Side              Side
	Price             decimal.Decimal
	Quantity          int64
	RemainingQuantity int64
	Status            Status
}

// NewOrder builds an order in the NEW state. It does not validate price
// or quantity; see the order book's NewOrder for the checked variant.
func NewOrder(id, seq uint64, side Side, price decimal.Decimal, quantity int64) *Order {
	return &Order{
		ID:                id,
		Seq:               seq,
		Side:              side,
		Price:             price,
		Quantity:          quantity,
		RemainingQuantity: quantity,
		Status:            StatusNew,
	}
}

// Fill consumes up to qty from the remaining quantity and returns the
// amount actually consumed. Requests above the remaining quantity are
// clamped. Terminal orders are never mutated.
func (o *Order) Fill(qty int64) int64 {
	if o.Status.Terminal() || qty <= 0 {
		return 0
	}
	actual := min(qty, o.RemainingQuantity)
	o.RemainingQuantity -= actual

	if o.RemainingQuantity == 0 {
		o.Status = StatusFilled
	} else if o.RemainingQuantity < o.Quantity {
		o.Status = StatusPartialFill
	}
	return actual
}

// FilledQuantity returns how much of the order has executed.
func (o *Order) FilledQuantity() int64 {
	return o.Quantity - o.RemainingQuantity
}

// IsFilled reports whether nothing remains to execute.
func (o *Order) IsFilled() bool {
	return o.RemainingQuantity == 0
}

// Compare orders two same-side orders by price-time priority. It returns a
// negative value when o ranks ahead of other. Bids rank higher prices first,
// asks rank lower prices first, and equal prices fall back to arrival
// sequence. Comparing a bid with an ask returns ErrSideMismatch.
func (o *Order) Compare(other *Order) (int, error) {
	if o.Side != other.Side {
		return 0, fmt.Errorf("%w: order %d is %s, order %d is %s",
			ErrSideMismatch, o.ID, o.Side, other.ID, other.Side)
	}

	var c int
	if o.Side == SideBid {
		c = other.Price.Cmp(o.Price)
	} else {
		c = o.Price.Cmp(other.Price)
	}
	if c != 0 {
		return c, nil
	}

	switch {
	case o.Seq < other.Seq:
		return -1, nil
	case o.Seq > other.Seq:
		return 1, nil
	}
	return 0, nil
}

func (o *Order) String() string {
	return o.Format(DefaultPriceScale)
}

// Format renders the order with its price fixed to scale decimals.
func (o *Order) Format(scale int32) string {
	return fmt.Sprintf("Order[id=%d, %s, $%s, qty=%d/%d, status=%s, seq=%d]",
		o.ID, o.Side, o.Price.StringFixed(scale), o.RemainingQuantity, o.Quantity, o.Status, o.Seq)
}
