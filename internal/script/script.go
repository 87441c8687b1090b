// Package script parses and runs line-oriented order scripts against a
// book. Each non-blank line is one command:
//
//	bid PRICE QTY
//	ask PRICE QTY
//	cancel ORDER_ID
//	match
//	print
//
// Text after '#' is a comment.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/efreitasn/clob/internal/domain"
	"github.com/efreitasn/clob/internal/engine"
	"github.com/efreitasn/clob/internal/render"
	"github.com/shopspring/decimal"
)

// Op identifies a script command.
type Op string

const (
	OpOrder  Op = "order"
	OpCancel Op = "cancel"
	OpMatch  Op = "match"
	OpPrint  Op = "print"
)

// Command is one parsed script line.
type Command struct {
	Line     int
	Op       Op
	Side     domain.Side
	Price    decimal.Decimal
	Quantity int64
	OrderID  uint64
}

// Parse reads commands from r. It stops at the first malformed line and
// returns a *domain.ValidationError naming it.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, err := parseLine(fields)
		if err != nil {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("line %d: %v", lineNo, err)}
		}
		cmd.Line = lineNo
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return cmds, nil
}

func parseLine(fields []string) (Command, error) {
	switch verb := strings.ToLower(fields[0]); verb {
	case "bid", "ask", "buy", "sell":
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("%s takes PRICE QTY", verb)
		}
		side, err := domain.ParseSide(verb)
		if err != nil {
			return Command{}, err
		}
		price, err := decimal.NewFromString(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("invalid price %q", fields[1])
		}
		qty, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return Command{}, fmt.Errorf("invalid quantity %q", fields[2])
		}
		return Command{Op: OpOrder, Side: side, Price: price, Quantity: qty}, nil
	case "cancel":
		if len(fields) != 2 {
			return Command{}, errors.New("cancel takes ORDER_ID")
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return Command{}, fmt.Errorf("invalid order id %q", fields[1])
		}
		return Command{Op: OpCancel, OrderID: id}, nil
	case "match":
		return Command{Op: OpMatch}, nil
	case "print":
		return Command{Op: OpPrint}, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

// Runner executes commands against a book and reports to out.
type Runner struct {
	book  *engine.SyncBook
	out   io.Writer
	scale int32
}

// NewRunner creates a Runner. scale is the price precision used for
// orders and the book; trade prices get one more decimal.
func NewRunner(book *engine.SyncBook, out io.Writer, scale int32) *Runner {
	return &Runner{book: book, out: out, scale: scale}
}

// Run executes cmds in order. Rejected orders and failed cancels are
// reported to out and do not stop the run; only write errors do.
func (r *Runner) Run(cmds []Command) error {
	for _, cmd := range cmds {
		if err := r.exec(cmd); err != nil {
			return fmt.Errorf("line %d: %w", cmd.Line, err)
		}
	}
	return nil
}

func (r *Runner) exec(cmd Command) error {
	switch cmd.Op {
	case OpOrder:
		order, trades, err := r.book.Submit(cmd.Side, cmd.Price, cmd.Quantity)
		if err != nil {
			_, werr := fmt.Fprintf(r.out, "Rejected: %v\n", err)
			return werr
		}
		if _, err := fmt.Fprintf(r.out, "Added: %s\n", order.Format(r.scale)); err != nil {
			return err
		}
		return r.printTrades(trades)
	case OpCancel:
		if err := r.book.CancelOrder(cmd.OrderID); err != nil {
			_, werr := fmt.Fprintf(r.out, "Cancel failed: %v\n", err)
			return werr
		}
		order, _ := r.book.Order(cmd.OrderID)
		_, err := fmt.Fprintf(r.out, "Cancelled: %s\n", order.Format(r.scale))
		return err
	case OpMatch:
		return r.printTrades(r.book.MatchOrders())
	case OpPrint:
		return render.Book(r.out, r.book.Snapshot(), r.scale)
	}
	return fmt.Errorf("unsupported op %q", cmd.Op)
}

func (r *Runner) printTrades(trades []domain.Trade) error {
	for _, t := range trades {
		if _, err := fmt.Fprintln(r.out, t.Format(r.scale+1)); err != nil {
			return err
		}
	}
	return nil
}
