package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/onlineboutique/checkout/internal/checkout/orderlog"
	"github.com/onlineboutique/checkout/internal/currency"
	"github.com/onlineboutique/checkout/internal/money"
	"github.com/onlineboutique/checkout/internal/pkg/metrics"
)

// Pipeline step names, used in the order log, metrics labels, and the
// Step field of the returned Error.
const (
	stepGetCart       = "get_cart"
	stepPriceItems    = "price_items"
	stepCharge        = "charge"
	stepQuoteShipping = "quote_shipping"
	stepSendEmail     = "send_confirmation"
	stepEmptyCart     = "empty_cart"
)

const (
	defaultStepTimeout        = 5 * time.Second
	defaultPricingConcurrency = 4
)

// Config tunes the orchestrator. The zero value gets sane defaults.
type Config struct {
	// StepTimeout bounds every collaborator call. A step that exceeds it
	// fails with ErrTimeout; the pipeline never blocks indefinitely.
	StepTimeout time.Duration

	// PricingConcurrency caps the fan-out of per-item product lookups.
	PricingConcurrency int

	// StrictEmail aborts the order (and refunds the charge) when the
	// confirmation email fails. Off by default: the email is a
	// best-effort notification, not a transactional step.
	StrictEmail bool
}

// Collaborators are the remote services the pipeline drives.
type Collaborators struct {
	Cart      CartService
	Catalog   ProductCatalog
	Converter currency.Service
	Payment   PaymentService
	Shipping  ShippingService
	Email     EmailService
}

// Orchestrator places orders. It holds no per-order state; a single
// instance serves concurrent checkouts.
type Orchestrator struct {
	col     Collaborators
	log     orderlog.Repository // nil-safe: transitions skipped if nil
	metrics *metrics.Checkout   // nil-safe
	logger  *slog.Logger
	cfg     Config
}

// New builds an orchestrator. logRepo and m may be nil.
func New(col Collaborators, logRepo orderlog.Repository, m *metrics.Checkout, logger *slog.Logger, cfg Config) *Orchestrator {
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = defaultStepTimeout
	}
	if cfg.PricingConcurrency <= 0 {
		cfg.PricingConcurrency = defaultPricingConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{col: col, log: logRepo, metrics: m, logger: logger, cfg: cfg}
}

// step is one unit of work in the checkout saga. Steps with lasting
// external effects carry a compensating action, executed LIFO when a
// later step fails.
type step struct {
	name       string
	execute    func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// pipeline is the mutable state threaded through one checkout run.
type pipeline struct {
	req        PlaceOrderRequest
	orderID    string
	trackingID string

	cartItems    []CartItem
	items        []OrderItem
	total        money.Money
	txID         string
	refunded     bool
	shippingCost money.Money
}

func (p *pipeline) result() OrderResult {
	return OrderResult{
		OrderID:            p.orderID,
		ShippingTrackingID: p.trackingID,
		ShippingCost:       p.shippingCost,
		ShippingAddress:    p.req.Address,
		Items:              p.items,
	}
}

// PlaceOrder drives the full checkout sequence and returns the
// assembled order. On failure it returns a *Error wrapping the first
// underlying cause; the Charged field tells the caller whether a
// payment had been captured before the pipeline stopped.
func (o *Orchestrator) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*OrderResult, error) {
	begin := time.Now()

	p := &pipeline{
		req:        req,
		orderID:    uuid.NewString(),
		trackingID: uuid.NewString(),
	}

	o.logger.LogAttrs(ctx, slog.LevelInfo, "placing order",
		slog.String("order_id", p.orderID),
		slog.String("user_id", req.UserID),
		slog.String("currency", req.UserCurrency),
	)

	steps := []step{
		{name: stepGetCart, execute: p.getCart(o)},
		{name: stepPriceItems, execute: p.priceItems(o)},
		{name: stepCharge, execute: p.charge(o), compensate: p.refund(o)},
		{name: stepQuoteShipping, execute: p.quoteShipping(o)},
		{name: stepSendEmail, execute: p.sendConfirmation(o)},
		{name: stepEmptyCart, execute: p.emptyCart(o)},
	}

	if err := o.run(ctx, p, steps); err != nil {
		if o.metrics != nil {
			o.metrics.OrderFailures.WithLabelValues(err.Step).Inc()
		}
		return nil, err
	}

	if o.metrics != nil {
		o.metrics.OrdersPlaced.Inc()
		o.metrics.PlaceOrderSec.Observe(time.Since(begin).Seconds())
	}
	o.logger.LogAttrs(ctx, slog.LevelInfo, "order placed",
		slog.String("order_id", p.orderID),
		slog.String("total", p.total.String()),
	)

	result := p.result()
	return &result, nil
}

// run executes the saga: steps in order, each under its own deadline,
// with LIFO compensation of completed steps when one fails. A caller
// cancellation suppresses further steps but does not compensate: an
// already-issued charge is never assumed reversible on cancel.
func (o *Orchestrator) run(ctx context.Context, p *pipeline, steps []step) *Error {
	o.record(ctx, p, orderlog.StatusStarted, "", "")

	var done []step
	for _, s := range steps {
		if err := o.runStep(ctx, s); err != nil {
			o.logger.LogAttrs(ctx, slog.LevelError, "checkout step failed",
				slog.String("order_id", p.orderID),
				slog.String("step", s.name),
				slog.Any("err", err),
			)
			if ctx.Err() == nil {
				o.compensate(ctx, p, done)
			}
			cerr := &Error{
				Step:          s.name,
				Charged:       p.txID != "",
				TransactionID: p.txID,
				Refunded:      p.refunded,
				Err:           err,
			}
			o.record(ctx, p, orderlog.StatusFailed, s.name, err.Error())
			return cerr
		}
		done = append(done, s)
		o.record(ctx, p, orderlog.StatusStepDone, s.name, "")
	}

	o.record(ctx, p, orderlog.StatusCompleted, "", "")
	return nil
}

// runStep bounds a single step with the configured deadline and maps
// deadline exhaustion to ErrTimeout attributed to that step.
func (o *Orchestrator) runStep(ctx context.Context, s step) error {
	stepCtx, cancel := context.WithTimeout(ctx, o.cfg.StepTimeout)
	defer cancel()

	err := s.execute(stepCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%s: %w", s.name, ErrTimeout)
	}
	return err
}

// compensate undoes completed steps in reverse order. Compensation
// failures are logged and do not mask the original error.
func (o *Orchestrator) compensate(ctx context.Context, p *pipeline, done []step) {
	// Survive cancellation of the inbound request: once we owe an undo,
	// it must run.
	ctx = context.WithoutCancel(ctx)

	o.record(ctx, p, orderlog.StatusCompensating, "", "")
	for i := len(done) - 1; i >= 0; i-- {
		s := done[i]
		if s.compensate == nil {
			continue
		}
		compCtx, cancel := context.WithTimeout(ctx, o.cfg.StepTimeout)
		if err := s.compensate(compCtx); err != nil {
			o.logger.LogAttrs(ctx, slog.LevelError, "CRITICAL: compensation failed",
				slog.String("order_id", p.orderID),
				slog.String("step", s.name),
				slog.Any("err", err),
			)
		}
		cancel()
	}
}

func (o *Orchestrator) record(ctx context.Context, p *pipeline, status orderlog.Status, step, detail string) {
	if o.log == nil {
		return
	}
	entry := orderlog.NewEntry(ctx, p.orderID, status, step, detail)
	if err := o.log.Save(ctx, entry); err != nil {
		o.logger.LogAttrs(ctx, slog.LevelError, "order log write failed",
			slog.String("order_id", p.orderID),
			slog.Any("err", err),
		)
	}
}

// --- steps ---

// getCart fetches the user's cart. An empty cart is a terminal
// precondition, not retried.
func (p *pipeline) getCart(o *Orchestrator) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		items, err := o.col.Cart.GetCart(ctx, p.req.UserID)
		if err != nil {
			return fmt.Errorf("get cart for %s: %w", p.req.UserID, err)
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}
		p.cartItems = items
		return nil
	}
}

// priceItems resolves each cart line to a product, converts its USD
// list price to the user currency, and totals the lines. Lookups have
// no data dependency on each other, so they fan out under a bounded
// worker pool.
func (p *pipeline) priceItems(o *Orchestrator) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		items := make([]OrderItem, len(p.cartItems))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.cfg.PricingConcurrency)
		for i, line := range p.cartItems {
			g.Go(func() error {
				product, err := o.col.Catalog.GetProduct(gctx, line.ProductID)
				if err != nil {
					return fmt.Errorf("product %s: %w", line.ProductID, err)
				}
				price, err := o.col.Converter.Convert(gctx, product.PriceUSD, p.req.UserCurrency)
				if err != nil {
					return fmt.Errorf("convert price of %s: %w", line.ProductID, err)
				}
				items[i] = OrderItem{Item: line, Cost: price.MultiplyInt(int64(line.Quantity))}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		// Seed the accumulator in the user's currency so the first add
		// cannot mismatch against a default code.
		total := money.Zero(p.req.UserCurrency)
		for _, it := range items {
			var err error
			total, err = total.Add(it.Cost)
			if err != nil {
				return fmt.Errorf("sum order total: %w", err)
			}
		}

		p.items = items
		p.total = total
		return nil
	}
}

// charge captures the order total. Any failure aborts the order; retry
// policy, if any, belongs to the payment collaborator.
func (p *pipeline) charge(o *Orchestrator) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		txID, err := o.col.Payment.Charge(ctx, p.total, p.req.CreditCard)
		if err != nil {
			return fmt.Errorf("charge %s: %w", p.total, err)
		}
		p.txID = txID
		return nil
	}
}

// refund is the compensating action for charge.
func (p *pipeline) refund(o *Orchestrator) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := o.col.Payment.Refund(ctx, p.txID); err != nil {
			return fmt.Errorf("refund %s: %w", p.txID, err)
		}
		p.refunded = true
		o.logger.LogAttrs(ctx, slog.LevelInfo, "charge refunded",
			slog.String("order_id", p.orderID),
			slog.String("transaction_id", p.txID),
		)
		return nil
	}
}

// quoteShipping prices delivery for the original, unpriced cart items.
func (p *pipeline) quoteShipping(o *Orchestrator) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		cost, err := o.col.Shipping.Quote(ctx, p.req.Address, p.cartItems)
		if err != nil {
			return fmt.Errorf("quote shipping: %w", err)
		}
		p.shippingCost = cost
		return nil
	}
}

// sendConfirmation emails the order summary. Best-effort unless
// StrictEmail is set: a failed notification is logged but does not undo
// a captured payment.
func (p *pipeline) sendConfirmation(o *Orchestrator) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		err := o.col.Email.SendConfirmation(ctx, p.req.Email, p.result())
		if err == nil {
			return nil
		}
		if o.cfg.StrictEmail {
			return fmt.Errorf("send confirmation: %w", err)
		}
		o.logger.LogAttrs(ctx, slog.LevelWarn, "confirmation email failed, order proceeds",
			slog.String("order_id", p.orderID),
			slog.Any("err", err),
		)
		return nil
	}
}

// emptyCart clears the user's cart after a successful charge.
func (p *pipeline) emptyCart(o *Orchestrator) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := o.col.Cart.EmptyCart(ctx, p.req.UserID); err != nil {
			return fmt.Errorf("empty cart for %s: %w", p.req.UserID, err)
		}
		return nil
	}
}
