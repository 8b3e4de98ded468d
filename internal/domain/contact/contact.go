// Package contact handles the "send us a message" form.
package contact

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// MaxMessageLen bounds the free-text message in runes.
const MaxMessageLen = 2000

// Inquiry is a message left through the contact form.
type Inquiry struct {
	Name    string
	Phone   string
	Message string
}

// InvalidError describes why an inquiry was rejected.
type InvalidError struct {
	Fields []string
}

func (e *InvalidError) Error() string {
	return "invalid inquiry: " + strings.Join(e.Fields, ", ")
}

// Validate requires a name and a phone number and caps the message length.
func (q Inquiry) Validate() error {
	var bad []string
	if strings.TrimSpace(q.Name) == "" {
		bad = append(bad, "name")
	}
	if strings.TrimSpace(q.Phone) == "" {
		bad = append(bad, "phone")
	}
	if utf8.RuneCountInString(q.Message) > MaxMessageLen {
		bad = append(bad, "message")
	}
	if len(bad) > 0 {
		return &InvalidError{Fields: bad}
	}
	return nil
}

// Service accepts inquiries. There is no delivery backend: inquiries are
// written to the log for the owner to follow up.
type Service struct {
	received metric.Int64Counter
}

// NewService creates a contact Service.
func NewService(mp metric.MeterProvider) (*Service, error) {
	meter := mp.Meter("github.com/maftown/spitbraai/internal/domain/contact")
	received, err := meter.Int64Counter("contact.inquiries",
		metric.WithDescription("Contact form submissions accepted"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "contact.inquiries counter")
	}
	return &Service{received: received}, nil
}

// Submit validates and records an inquiry.
func (s *Service) Submit(ctx context.Context, q Inquiry) error {
	if err := q.Validate(); err != nil {
		return err
	}
	s.received.Add(ctx, 1)
	zctx.From(ctx).Info("Contact inquiry",
		zap.String("name", strings.TrimSpace(q.Name)),
		zap.String("phone", strings.TrimSpace(q.Phone)),
		zap.String("message", q.Message),
	)
	return nil
}
