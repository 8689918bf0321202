package shipper

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 4

// Result is the discriminated outcome of one quote: exactly one of
// International, Domestic or Err is set.
type Result struct {
	Mode          Mode
	International *InternationalQuote
	Domestic      *DomesticQuote
	Err           error
	Duration      time.Duration
}

// OK reports whether the quote succeeded.
func (r *Result) OK() bool {
	return r.Err == nil
}

// Dispatcher routes shipment requests to the carrier quoter by mode.
type Dispatcher struct {
	quoter      Quoter
	concurrency int
}

// NewDispatcher creates a dispatcher. A non-positive concurrency uses the default.
func NewDispatcher(q Quoter, concurrency int) *Dispatcher {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	return &Dispatcher{
		quoter:      q,
		concurrency: concurrency,
	}
}

// Carrier returns the name of the carrier behind the dispatcher.
func (d *Dispatcher) Carrier() string {
	return d.quoter.Name()
}

// Quote routes a shipment on its mode and runs the matching quote path.
func (d *Dispatcher) Quote(ctx context.Context, s ShipmentRequest) *Result {
	start := time.Now()
	res := &Result{Mode: s.ResolveMode()}

	req, err := s.Route()
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	switch r := req.(type) {
	case *InternationalRequest:
		q, err := d.quoter.QuoteInternational(ctx, r)
		if err != nil {
			res.Err = err
		} else {
			res.International = q
		}
	case *DomesticRequest:
		q, err := d.quoter.QuoteDomestic(ctx, r)
		if err != nil {
			res.Err = err
		} else {
			res.Domestic = q
		}
	}

	res.Duration = time.Since(start)
	return res
}

// QuoteBatch quotes independent shipments concurrently. Results keep the
// input order; a failing shipment does not fail the others.
func (d *Dispatcher) QuoteBatch(ctx context.Context, shipments []ShipmentRequest) []*Result {
	results := make([]*Result, len(shipments))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for i, s := range shipments {
		g.Go(func() error {
			results[i] = d.Quote(ctx, s)
			return nil // Don't cancel the other shipments
		})
	}

	g.Wait()
	return results
}
