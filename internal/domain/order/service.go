package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/maftown/spitbraai/internal/domain/cart"
)

// Service compiles carts into order messages.
type Service struct {
	carts Carts
	cfg   Config

	tracer    trace.Tracer
	checkouts metric.Int64Counter
	rejected  metric.Int64Counter
	value     metric.Float64Histogram
}

// NewService creates an order Service.
func NewService(carts Carts, cfg Config, tp trace.TracerProvider, mp metric.MeterProvider) (*Service, error) {
	const name = "github.com/maftown/spitbraai/internal/domain/order"
	meter := mp.Meter(name)

	checkouts, err := meter.Int64Counter("order.checkouts",
		metric.WithDescription("Orders handed off to the messaging service"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "order.checkouts counter")
	}
	rejected, err := meter.Int64Counter("order.checkouts.rejected",
		metric.WithDescription("Checkout attempts rejected before hand-off"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "order.checkouts.rejected counter")
	}
	value, err := meter.Float64Histogram("order.total",
		metric.WithDescription("Order total in rand"),
		metric.WithUnit("ZAR"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "order.total histogram")
	}

	return &Service{
		carts:     carts,
		cfg:       cfg,
		tracer:    tp.Tracer(name),
		checkouts: checkouts,
		rejected:  rejected,
		value:     value,
	}, nil
}

// Checkout validates the customer, takes the cart contents and builds the
// hand-off. The cart is cleared only when a hand-off is produced; a missing
// field or an empty cart leaves it as is.
func (s *Service) Checkout(ctx context.Context, sessionID string, c Customer) (_ *Handoff, rerr error) {
	ctx, span := s.tracer.Start(ctx, "order.Checkout")
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		span.End()
	}()

	if err := c.Validate(); err != nil {
		s.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "missing_field")))
		return nil, err
	}

	sess, err := s.carts.Drain(ctx, sessionID)
	if err != nil {
		if errors.Is(err, cart.ErrEmpty) {
			s.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "empty_cart")))
			return nil, ErrEmptyCart
		}
		return nil, errors.Wrap(err, "drain cart")
	}

	lines := sess.Cart.Lines()
	total := sess.Cart.Total()
	msg := FormatMessage(s.cfg.Template, sess.PrepMode, c, lines, total)

	h := &Handoff{
		Message:  msg,
		Link:     DeepLink(s.cfg.LinkBase, s.cfg.Number, msg),
		Lines:    lines,
		Total:    total,
		PrepMode: sess.PrepMode,
	}

	s.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.String("prep_mode", string(sess.PrepMode))))
	s.value.Record(ctx, total.InexactFloat64())
	span.SetAttributes(
		attribute.Int("order.lines", len(lines)),
		attribute.String("order.total", total.String()),
	)
	zctx.From(ctx).Info("Order handed off",
		zap.Int("lines", len(lines)),
		zap.Int("units", sess.Cart.Count()),
		zap.String("total", total.String()),
		zap.String("prep_mode", string(sess.PrepMode)),
	)

	return h, nil
}
