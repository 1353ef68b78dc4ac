package invoicing

import (
	"context"
	"time"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

// Service stamps business documents with daily-resetting invoice numbers.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds an invoicing Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Next returns the next invoice number for prefix, e.g. PUR-20250630-0001.
func (s *Service) Next(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", shared.NewValidationError("prefix", "required")
	}
	day := s.today()
	n, err := s.repo.NextNumber(ctx, prefix, day)
	if err != nil {
		return "", err
	}
	return Format(prefix, day, n), nil
}

func (s *Service) today() time.Time {
	t := s.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
