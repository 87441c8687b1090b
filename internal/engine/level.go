package engine

import (
	"fmt"

	"github.com/efreitasn/clob/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderLocation is the index entry for a resting order. It records the
// side and price level the order sits at and doubles as the order's node
// in that level's FIFO queue, so removal by order ID never scans.
type OrderLocation struct {
	Order *domain.Order
	Price decimal.Decimal
	Side  domain.Side

	level *priceLevel
	prev  *OrderLocation
	next  *OrderLocation
}

func (l *OrderLocation) String() string {
	return fmt.Sprintf("OrderLocation[order=%d, price=%s, side=%s]",
		l.Order.ID, l.Price, l.Side)
}

// priceLevel is the FIFO queue of orders resting at one exact price.
type priceLevel struct {
	price decimal.Decimal
	head  *OrderLocation
	tail  *OrderLocation
	count int
}

func newPriceLevel(price decimal.Decimal) *priceLevel {
	return &priceLevel{price: price}
}

// enqueue appends loc at the tail of the queue.
func (p *priceLevel) enqueue(loc *OrderLocation) {
	loc.level = p
	loc.prev = p.tail
	loc.next = nil
	if p.tail == nil {
		p.head = loc
	} else {
		p.tail.next = loc
	}
	p.tail = loc
	p.count++
}

// remove splices loc out of the queue wherever it sits.
func (p *priceLevel) remove(loc *OrderLocation) {
	if loc.prev == nil {
		p.head = loc.next
	} else {
		loc.prev.next = loc.next
	}
	if loc.next == nil {
		p.tail = loc.prev
	} else {
		loc.next.prev = loc.prev
	}
	loc.prev = nil
	loc.next = nil
	loc.level = nil
	p.count--
}

func (p *priceLevel) front() *OrderLocation {
	return p.head
}

func (p *priceLevel) empty() bool {
	return p.head == nil
}

// totalQuantity sums the live remaining quantity of every queued order.
func (p *priceLevel) totalQuantity() int64 {
	var total int64
	for loc := p.head; loc != nil; loc = loc.next {
		total += loc.Order.RemainingQuantity
	}
	return total
}

// each walks the queue from oldest to newest. fn returns false to stop.
func (p *priceLevel) each(fn func(*OrderLocation) bool) bool {
	for loc := p.head; loc != nil; loc = loc.next {
		if !fn(loc) {
			return false
		}
	}
	return true
}
