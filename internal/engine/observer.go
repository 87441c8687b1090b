package engine

import (
	"log/slog"

	"github.com/efreitasn/clob/internal/domain"
)

// Observer receives book events synchronously, in the order they happen.
// Implementations must not call back into mutating methods of the book.
type Observer interface {
	OnOrderAdded(book *OrderBook, order domain.Order)
	OnTrade(book *OrderBook, trade domain.Trade)
	OnOrderCancelled(book *OrderBook, order domain.Order)
	OnCancelRejected(book *OrderBook, orderID uint64, err error)
}

// LogObserver writes every book event to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver. A nil logger uses slog.Default().
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (l *LogObserver) bookAttrs(book *OrderBook) slog.Attr {
	return slog.Group("book",
		slog.String("id", book.ID().String()),
		slog.String("symbol", book.Symbol()),
	)
}

func (l *LogObserver) OnOrderAdded(book *OrderBook, order domain.Order) {
	l.logger.Info("order added",
		l.bookAttrs(book),
		slog.Uint64("order_id", order.ID),
		slog.String("side", string(order.Side)),
		slog.String("price", order.Price.String()),
		slog.Int64("quantity", order.Quantity),
	)
}

func (l *LogObserver) OnTrade(book *OrderBook, trade domain.Trade) {
	l.logger.Info("trade executed",
		l.bookAttrs(book),
		slog.Uint64("trade_id", trade.TradeID),
		slog.Uint64("buy_order_id", trade.BuyOrderID),
		slog.Uint64("sell_order_id", trade.SellOrderID),
		slog.String("price", trade.Price.String()),
		slog.Int64("quantity", trade.Quantity),
	)
}

func (l *LogObserver) OnOrderCancelled(book *OrderBook, order domain.Order) {
	l.logger.Info("order cancelled",
		l.bookAttrs(book),
		slog.Uint64("order_id", order.ID),
		slog.Int64("remaining_quantity", order.RemainingQuantity),
	)
}

func (l *LogObserver) OnCancelRejected(book *OrderBook, orderID uint64, err error) {
	l.logger.Warn("cancel rejected",
		l.bookAttrs(book),
		slog.Uint64("order_id", orderID),
		slog.String("error", err.Error()),
	)
}
