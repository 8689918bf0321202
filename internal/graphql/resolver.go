package graphql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/dhlquote/internal/telemetry"
	"github.com/tournevent/dhlquote/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Resolver is the root resolver for the GraphQL schema.
// It holds dependencies needed by all resolvers.
type Resolver struct {
	Dispatcher *shipper.Dispatcher
	Logger     *otelzap.Logger
	Metrics    *telemetry.Metrics
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(dispatcher *shipper.Dispatcher, logger *otelzap.Logger, metrics *telemetry.Metrics) *Resolver {
	return &Resolver{
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	}
}

type QueryResolver interface {
	Health(ctx context.Context) (bool, error)
	Services(ctx context.Context) ([]string, error)
}

type MutationResolver interface {
	Quote(ctx context.Context, input ShipmentInput) (*QuoteResult, error)
	QuoteInternational(ctx context.Context, input ShipmentInput) (*QuoteResult, error)
	QuoteDomestic(ctx context.Context, input ShipmentInput) (*QuoteResult, error)
	QuoteBatch(ctx context.Context, inputs []*ShipmentInput) ([]*QuoteResult, error)
}

// Query returns the query resolver.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

// Mutation returns the mutation resolver.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

type queryResolver struct{ *Resolver }

func (r *queryResolver) Health(ctx context.Context) (bool, error) {
	return true, nil
}

func (r *queryResolver) Services(ctx context.Context) ([]string, error) {
	return []string{shipper.ServiceInternational, shipper.ServiceDomestic}, nil
}

type mutationResolver struct{ *Resolver }

func (r *mutationResolver) Quote(ctx context.Context, input ShipmentInput) (*QuoteResult, error) {
	return r.quote(ctx, "quote", shipmentInputToModel(input)), nil
}

func (r *mutationResolver) QuoteInternational(ctx context.Context, input ShipmentInput) (*QuoteResult, error) {
	req := shipmentInputToModel(input)
	req.Mode = shipper.ModeInternational
	return r.quote(ctx, "quoteInternational", req), nil
}

func (r *mutationResolver) QuoteDomestic(ctx context.Context, input ShipmentInput) (*QuoteResult, error) {
	req := shipmentInputToModel(input)
	req.Mode = shipper.ModeDomestic
	return r.quote(ctx, "quoteDomestic", req), nil
}

func (r *mutationResolver) QuoteBatch(ctx context.Context, inputs []*ShipmentInput) ([]*QuoteResult, error) {
	reqs := make([]shipper.ShipmentRequest, len(inputs))
	for i, in := range inputs {
		if in != nil {
			reqs[i] = shipmentInputToModel(*in)
		}
	}

	start := time.Now()
	results := r.Dispatcher.QuoteBatch(ctx, reqs)

	out := make([]*QuoteResult, len(results))
	for i, res := range results {
		out[i] = r.finish(ctx, "quoteBatch", res)
	}

	r.Logger.Ctx(ctx).Info("Batch quoted",
		zap.Int("shipments", len(inputs)),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}

func (r *mutationResolver) quote(ctx context.Context, operation string, req shipper.ShipmentRequest) *QuoteResult {
	return r.finish(ctx, operation, r.Dispatcher.Quote(ctx, req))
}

// finish records the outcome of one quote and converts it for the response.
func (r *Resolver) finish(ctx context.Context, operation string, res *shipper.Result) *QuoteResult {
	requestID := uuid.New().String()

	status := "success"
	if !res.OK() {
		status = "error"
		code := shipper.CodeOf(res.Err)
		r.Metrics.RecordError(r.Dispatcher.Carrier(), code)
		r.Logger.Ctx(ctx).Warn("Quote failed",
			zap.String("request_id", requestID),
			zap.String("operation", operation),
			zap.String("mode", string(res.Mode)),
			zap.String("code", code),
			zap.Error(res.Err),
		)
	}
	r.Metrics.RecordQuote(operation, string(res.Mode), status, res.Duration.Seconds())

	return resultToGraphQL(requestID, res)
}
