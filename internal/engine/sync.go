package engine

import (
	"sync"
	"time"

	"github.com/efreitasn/clob/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is a consistent point-in-time view of the book.
type Snapshot struct {
	BookID   uuid.UUID
	Symbol   string
	Bids     []PriceLevel // best (highest) first
	Asks     []PriceLevel // best (lowest) first
	Spread   decimal.NullDecimal
	MidPrice decimal.NullDecimal
	Stats    Stats
	TakenAt  time.Time
}

// Snapshot captures the current depth, spread, mid price and counters.
func (ob *OrderBook) Snapshot() Snapshot {
	snap := Snapshot{
		BookID:  ob.id,
		Symbol:  ob.symbol,
		Bids:    ob.Depth(domain.SideBid),
		Asks:    ob.Depth(domain.SideAsk),
		Stats:   ob.Stats(),
		TakenAt: ob.now(),
	}
	if spread, ok := ob.Spread(); ok {
		snap.Spread = decimal.NewNullDecimal(spread)
	}
	if mid, ok := ob.MidPrice(); ok {
		snap.MidPrice = decimal.NewNullDecimal(mid)
	}
	return snap
}

// SyncBook makes an OrderBook safe for concurrent callers. Admission with
// its matching pass and cancellation each run inside one exclusive
// critical section; queries share a read lock.
type SyncBook struct {
	mu   sync.RWMutex
	book *OrderBook
}

// NewSyncBook wraps book. The caller must not use book directly afterwards.
func NewSyncBook(book *OrderBook) *SyncBook {
	return &SyncBook{book: book}
}

// Submit constructs an order with the book's counters and admits it.
func (s *SyncBook) Submit(side domain.Side, price decimal.Decimal, quantity int64) (domain.Order, []domain.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.book.NewOrder(side, price, quantity)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return s.book.AddOrder(order)
}

// AddOrder admits an order built by the caller.
func (s *SyncBook) AddOrder(order domain.Order) (domain.Order, []domain.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.AddOrder(order)
}

// CancelOrder cancels a resting order.
func (s *SyncBook) CancelOrder(orderID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.CancelOrder(orderID)
}

// MatchOrders runs a matching pass.
func (s *SyncBook) MatchOrders() []domain.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.MatchOrders()
}

// Snapshot returns a consistent view of the book.
func (s *SyncBook) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Snapshot()
}

// Depth returns the aggregated levels of one side.
func (s *SyncBook) Depth(side domain.Side) []PriceLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Depth(side)
}

// Spread returns best ask minus best bid.
func (s *SyncBook) Spread() (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Spread()
}

// MidPrice returns the average of the best bid and best ask.
func (s *SyncBook) MidPrice() (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.MidPrice()
}

// Trades returns a copy of the trade log.
func (s *SyncBook) Trades() []domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Trades()
}

// Order returns a copy of an admitted order.
func (s *SyncBook) Order(orderID uint64) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Order(orderID)
}

// IsActive reports whether the order is still resting.
func (s *SyncBook) IsActive(orderID uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.IsActive(orderID)
}
