package currency

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onlineboutique/checkout/internal/money"
)

// loggingService decorates a Service with structured logging.
type loggingService struct {
	logger *slog.Logger
	next   Service
}

// NewLoggingService returns a Service that logs every conversion.
func NewLoggingService(logger *slog.Logger, s Service) Service {
	return &loggingService{logger: logger, next: s}
}

func (s *loggingService) Convert(ctx context.Context, amount money.Money, toCurrency string) (out money.Money, err error) {
	defer func(begin time.Time) {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "convert",
			slog.String("from", amount.CurrencyCode),
			slog.String("to", toCurrency),
			slog.String("amount", amount.String()),
			slog.String("converted", out.String()),
			slog.Duration("took", time.Since(begin)),
			slog.Any("err", err),
		)
	}(time.Now())
	return s.next.Convert(ctx, amount, toCurrency)
}

func (s *loggingService) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	return s.next.Rate(ctx, from, to)
}

func (s *loggingService) Currencies(ctx context.Context) ([]string, error) {
	return s.next.Currencies(ctx)
}
