package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/eshaffer321/cardperks-backend/internal/domain/period"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
)

// BenefitService derives period-aware benefit status for the API.
type BenefitService struct {
	repo   storage.Repository
	logger *slog.Logger
	now    func() time.Time
}

// BenefitStatus is one benefit with its current-period usage state.
type BenefitStatus struct {
	Benefit        storage.Benefit `json:"benefit"`
	PeriodKey      string          `json:"period_key"`
	PeriodEnd      time.Time       `json:"period_end"`
	UsedCents      int64           `json:"used_cents"`
	RemainingCents int64           `json:"remaining_cents"`
	ExpiringSoon   bool            `json:"expiring_soon"`
}

// NewBenefitService creates a benefit service.
func NewBenefitService(repo storage.Repository, logger *slog.Logger) *BenefitService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BenefitService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source for deterministic tests.
func (s *BenefitService) WithClock(now func() time.Time) *BenefitService {
	s.now = now
	return s
}

// Overview returns every active benefit with its current period key,
// recorded usage, remaining allotment, and expiry signal.
func (s *BenefitService) Overview() ([]BenefitStatus, error) {
	now := s.now()

	benefits, err := s.repo.ListBenefits(true)
	if err != nil {
		return nil, fmt.Errorf("failed to list benefits: %w", err)
	}

	statuses := make([]BenefitStatus, 0, len(benefits))
	for _, b := range benefits {
		reset := period.Reset(b.ResetPeriod)
		key := period.Key(reset, now)

		usage, err := s.repo.ListUsage(b.ID, key)
		if err != nil {
			return nil, fmt.Errorf("failed to list usage for %s: %w", b.ID, err)
		}

		var used int64
		amounts := make([]int64, len(usage))
		for i, u := range usage {
			amounts[i] = u.AmountUsedCents
			used += u.AmountUsedCents
		}
		if used > b.AmountCents {
			used = b.AmountCents
		}

		statuses = append(statuses, BenefitStatus{
			Benefit:        b,
			PeriodKey:      key,
			PeriodEnd:      period.End(reset, now),
			UsedCents:      used,
			RemainingCents: period.RemainingCents(b.AmountCents, amounts),
			ExpiringSoon:   period.ExpiringSoon(reset, now),
		})
	}

	return statuses, nil
}
