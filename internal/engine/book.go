package engine

import (
	"fmt"
	"time"

	"github.com/efreitasn/clob/internal/domain"
	"github.com/google/btree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// PriceLevel represents an aggregated price level in the order book.
type PriceLevel struct {
	Price         decimal.Decimal
	TotalQuantity int64
	OrderCount    int
}

// Stats holds the book's aggregate counters.
type Stats struct {
	TotalOrders   int64
	TradeCount    int
	TotalVolume   int64
	TotalNotional decimal.Decimal
}

// bidLess orders bid levels by price descending, so Min() returns the
// best (highest) bid.
func bidLess(a, b *priceLevel) bool {
	return a.price.GreaterThan(b.price)
}

// askLess orders ask levels by price ascending, so Min() returns the
// best (lowest) ask.
func askLess(a, b *priceLevel) bool {
	return a.price.LessThan(b.price)
}

// OrderBook is a single-instrument central limit order book with
// price-time priority. Each side is a B-tree of price levels, and each
// level is a FIFO queue of orders. Every mutation runs matching to a
// fixed point before returning, so the book is never left crossed.
//
// OrderBook is not safe for concurrent use; wrap it in a SyncBook.
type OrderBook struct {
	id     uuid.UUID
	symbol string

	bids   *btree.BTreeG[*priceLevel]
	asks   *btree.BTreeG[*priceLevel]
	index  map[uint64]*OrderLocation // resting orders only
	orders map[uint64]*domain.Order  // every admitted order

	trades        []domain.Trade
	totalOrders   int64
	totalVolume   int64
	totalNotional decimal.Decimal

	orderIDs  *domain.Sequence
	orderSeqs *domain.Sequence
	tradeIDs  *domain.Sequence

	observers []Observer
	now       func() time.Time
}

// NewOrderBook creates an empty order book for the given symbol. The
// observers are notified of every admission, trade and cancellation.
func NewOrderBook(symbol string, observers ...Observer) *OrderBook {
	const degree = 32
	return &OrderBook{
		id:        uuid.New(),
		symbol:    symbol,
		bids:      btree.NewG[*priceLevel](degree, bidLess),
		asks:      btree.NewG[*priceLevel](degree, askLess),
		index:     make(map[uint64]*OrderLocation),
		orders:    make(map[uint64]*domain.Order),
		orderIDs:  domain.NewSequence(0),
		orderSeqs: domain.NewSequence(0),
		tradeIDs:  domain.NewSequence(0),
		observers: observers,
		now:       time.Now,
	}
}

// ID returns the identifier of this book instance.
func (ob *OrderBook) ID() uuid.UUID {
	return ob.id
}

// Symbol returns the instrument symbol the book was created for.
func (ob *OrderBook) Symbol() string {
	return ob.symbol
}

// NewOrder constructs an order using the book's own identifier and
// arrival-sequence counters. Non-positive prices and quantities are
// rejected.
func (ob *OrderBook) NewOrder(side domain.Side, price decimal.Decimal, quantity int64) (domain.Order, error) {
	if err := validateOrder(side, price, quantity); err != nil {
		return domain.Order{}, err
	}
	return *domain.NewOrder(ob.orderIDs.Next(), ob.orderSeqs.Next(), side, price, quantity), nil
}

func validateOrder(side domain.Side, price decimal.Decimal, quantity int64) error {
	if side != domain.SideBid && side != domain.SideAsk {
		return fmt.Errorf("%w: %q", domain.ErrUnknownSide, side)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidPrice, price)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}
	return nil
}

// AddOrder admits a NEW order to the book: it is marked ACTIVE, queued at
// the tail of its price level and indexed, and then the book is matched
// to a fixed point. The book keeps its own copy of order; the returned
// order is that copy once matching settles, along with the trades this
// admission produced. The book's counters move past the order's ID and
// sequence, so later NewOrder calls never reuse them.
func (ob *OrderBook) AddOrder(order domain.Order) (domain.Order, []domain.Trade, error) {
	if err := validateOrder(order.Side, order.Price, order.Quantity); err != nil {
		return domain.Order{}, nil, err
	}
	if order.Status != domain.StatusNew {
		return domain.Order{}, nil, fmt.Errorf("%w: order %d is %s", domain.ErrOrderNotNew, order.ID, order.Status)
	}
	if _, exists := ob.orders[order.ID]; exists {
		return domain.Order{}, nil, fmt.Errorf("%w: order %d", domain.ErrDuplicateOrder, order.ID)
	}

	ob.orderIDs.Advance(order.ID)
	ob.orderSeqs.Advance(order.Seq)
	ob.totalOrders++

	o := &order
	o.Status = domain.StatusActive

	tree := ob.side(o.Side)
	level, ok := tree.Get(&priceLevel{price: o.Price})
	if !ok {
		level = newPriceLevel(o.Price)
		tree.ReplaceOrInsert(level)
	}

	loc := &OrderLocation{
		Order: o,
		Price: level.price,
		Side:  o.Side,
	}
	level.enqueue(loc)
	ob.index[o.ID] = loc
	ob.orders[o.ID] = o

	for _, obs := range ob.observers {
		obs.OnOrderAdded(ob, *o)
	}

	trades := ob.MatchOrders()
	return *o, trades, nil
}

// MatchOrders crosses the book until the best bid is below the best ask
// or one side is empty. Each step trades the head orders of the two best
// levels at the midpoint of the two best prices. Calling it on an
// uncrossed book is a no-op.
func (ob *OrderBook) MatchOrders() []domain.Trade {
	var trades []domain.Trade

	for {
		bidLevel, hasBid := ob.bids.Min()
		askLevel, hasAsk := ob.asks.Min()
		if !hasBid || !hasAsk {
			break
		}
		if bidLevel.price.LessThan(askLevel.price) {
			break
		}

		bid := bidLevel.front()
		ask := askLevel.front()

		qty := min(bid.Order.RemainingQuantity, ask.Order.RemainingQuantity)
		price := bidLevel.price.Add(askLevel.price).Div(two)

		trade := ob.executeTrade(bid.Order, ask.Order, qty, price)
		trades = append(trades, trade)

		bid.Order.Fill(qty)
		ask.Order.Fill(qty)

		if bid.Order.IsFilled() {
			ob.unlink(bid)
		}
		if ask.Order.IsFilled() {
			ob.unlink(ask)
		}
	}

	return trades
}

// executeTrade records a trade and updates the volume and notional
// counters.
func (ob *OrderBook) executeTrade(bid, ask *domain.Order, qty int64, price decimal.Decimal) domain.Trade {
	trade := domain.Trade{
		TradeID:     ob.tradeIDs.Next(),
		BuyOrderID:  bid.ID,
		SellOrderID: ask.ID,
		Price:       price,
		Quantity:    qty,
		ExecutedAt:  ob.now(),
	}
	ob.trades = append(ob.trades, trade)
	ob.totalVolume += qty
	ob.totalNotional = ob.totalNotional.Add(trade.Notional())

	for _, o := range ob.observers {
		o.OnTrade(ob, trade)
	}
	return trade
}

// CancelOrder removes a resting order from the book. It returns
// ErrOrderNotFound for unknown IDs and a *TerminalOrderError (matching
// ErrOrderNotCancellable) for orders already filled or cancelled. A
// failed cancel leaves the book unchanged.
func (ob *OrderBook) CancelOrder(orderID uint64) error {
	err := ob.cancel(orderID)
	if err != nil {
		for _, o := range ob.observers {
			o.OnCancelRejected(ob, orderID, err)
		}
	}
	return err
}

func (ob *OrderBook) cancel(orderID uint64) error {
	order, ok := ob.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: order %d", domain.ErrOrderNotFound, orderID)
	}
	if order.Status.Terminal() {
		return &domain.TerminalOrderError{OrderID: orderID, Status: order.Status}
	}
	loc, ok := ob.index[orderID]
	if !ok {
		return fmt.Errorf("%w: order %d not resting", domain.ErrOrderNotFound, orderID)
	}

	ob.unlink(loc)
	order.Status = domain.StatusCancelled

	for _, o := range ob.observers {
		o.OnOrderCancelled(ob, *order)
	}
	return nil
}

// unlink removes a resting order from its level queue and the index,
// dropping the level once it is empty.
func (ob *OrderBook) unlink(loc *OrderLocation) {
	level := loc.level
	level.remove(loc)
	delete(ob.index, loc.Order.ID)
	if level.empty() {
		ob.side(loc.Side).Delete(level)
	}
}

func (ob *OrderBook) side(s domain.Side) *btree.BTreeG[*priceLevel] {
	if s == domain.SideBid {
		return ob.bids
	}
	return ob.asks
}

// BestBid returns the highest resting bid price.
func (ob *OrderBook) BestBid() (decimal.Decimal, bool) {
	level, ok := ob.bids.Min()
	if !ok {
		return decimal.Decimal{}, false
	}
	return level.price, true
}

// BestAsk returns the lowest resting ask price.
func (ob *OrderBook) BestAsk() (decimal.Decimal, bool) {
	level, ok := ob.asks.Min()
	if !ok {
		return decimal.Decimal{}, false
	}
	return level.price, true
}

// Spread returns best ask minus best bid. ok is false when either side
// is empty.
func (ob *OrderBook) Spread() (decimal.Decimal, bool) {
	bid, hasBid := ob.BestBid()
	ask, hasAsk := ob.BestAsk()
	if !hasBid || !hasAsk {
		return decimal.Decimal{}, false
	}
	return ask.Sub(bid), true
}

// MidPrice returns the average of the best bid and best ask. ok is false
// when either side is empty.
func (ob *OrderBook) MidPrice() (decimal.Decimal, bool) {
	bid, hasBid := ob.BestBid()
	ask, hasAsk := ob.BestAsk()
	if !hasBid || !hasAsk {
		return decimal.Decimal{}, false
	}
	return bid.Add(ask).Div(two), true
}

// Depth aggregates the live remaining quantity per price level of one
// side, best price first.
func (ob *OrderBook) Depth(side domain.Side) []PriceLevel {
	tree := ob.side(side)
	levels := make([]PriceLevel, 0, tree.Len())
	tree.Ascend(func(level *priceLevel) bool {
		levels = append(levels, PriceLevel{
			Price:         level.price,
			TotalQuantity: level.totalQuantity(),
			OrderCount:    level.count,
		})
		return true
	})
	return levels
}

// Trades returns a copy of the trade log in execution order.
func (ob *OrderBook) Trades() []domain.Trade {
	result := make([]domain.Trade, len(ob.trades))
	copy(result, ob.trades)
	return result
}

// Order returns a copy of an admitted order, including ones that have
// since been filled or cancelled.
func (ob *OrderBook) Order(orderID uint64) (domain.Order, bool) {
	order, ok := ob.orders[orderID]
	if !ok {
		return domain.Order{}, false
	}
	return *order, true
}

// IsActive reports whether the order is resting (ACTIVE or PARTIAL_FILL).
func (ob *OrderBook) IsActive(orderID uint64) bool {
	order, ok := ob.orders[orderID]
	return ok && order.Status.Resting()
}

// ActiveOrders returns copies of all resting orders: bids best-first,
// then asks best-first, FIFO within each level.
func (ob *OrderBook) ActiveOrders() []domain.Order {
	orders := make([]domain.Order, 0, len(ob.index))
	collect := func(level *priceLevel) bool {
		level.each(func(loc *OrderLocation) bool {
			orders = append(orders, *loc.Order)
			return true
		})
		return true
	}
	ob.bids.Ascend(collect)
	ob.asks.Ascend(collect)
	return orders
}

// Stats returns the aggregate counters.
func (ob *OrderBook) Stats() Stats {
	return Stats{
		TotalOrders:   ob.totalOrders,
		TradeCount:    len(ob.trades),
		TotalVolume:   ob.totalVolume,
		TotalNotional: ob.totalNotional,
	}
}

// BidCount returns the number of individual bid orders on the book.
func (ob *OrderBook) BidCount() int {
	return ob.count(ob.bids)
}

// AskCount returns the number of individual ask orders on the book.
func (ob *OrderBook) AskCount() int {
	return ob.count(ob.asks)
}

func (ob *OrderBook) count(tree *btree.BTreeG[*priceLevel]) int {
	n := 0
	tree.Ascend(func(level *priceLevel) bool {
		n += level.count
		return true
	})
	return n
}
