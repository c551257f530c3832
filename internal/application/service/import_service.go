// Package service orchestrates imports and syncs around the pure matching
// core: parse, match, persist, log a run.
package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/eshaffer321/cardperks-backend/internal/domain/matcher"
	"github.com/eshaffer321/cardperks-backend/internal/domain/period"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
	"github.com/eshaffer321/cardperks-backend/internal/statement"
)

// ImportService applies statement imports and budget syncs to storage.
//
// The matching core is stateless and recomputes from scratch on every call;
// this layer owns the stateful parts: the dedup check-then-insert, the
// running cap against already-recorded usage, and threshold updates.
type ImportService struct {
	repo    storage.Repository
	matcher *matcher.Matcher
	logger  *slog.Logger
	now     func() time.Time
}

// ImportSummary reports what one CSV import did.
type ImportSummary struct {
	Parsed           int           `json:"parsed"`
	BenefitsImported int           `json:"benefits_imported"`
	BenefitsSkipped  int           `json:"benefits_skipped"`
	OffersUpdated    int           `json:"offers_updated"`
	Matches          []UsageRecord `json:"matches"`
}

// UsageRecord is one benefit credit detected during an import.
type UsageRecord struct {
	BenefitName string `json:"benefit_name"`
	PeriodKey   string `json:"period_key"`
	AmountCents int64  `json:"amount_cents"`
	Notes       string `json:"notes"`
}

// SyncSummary reports what one budget sync did.
type SyncSummary struct {
	BenefitsMatched int `json:"benefits_matched"`
	OffersUpdated   int `json:"offers_updated"`
}

// NewImportService creates an import service.
func NewImportService(repo storage.Repository, m *matcher.Matcher, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{
		repo:    repo,
		matcher: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Tests pin it for deterministic
// period keys.
func (s *ImportService) WithClock(now func() time.Time) *ImportService {
	s.now = now
	return s
}

// ImportCSV parses an Amex activity export and records benefit usage and
// offer threshold completions. Safe to re-run with the same file: the
// (benefit, period, notes) dedup key makes repeated lines skips, not
// duplicates.
func (s *ImportService) ImportCSV(r io.Reader) (*ImportSummary, error) {
	records, err := statement.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse statement: %w", err)
	}

	runID, err := s.repo.StartSyncRun("csv")
	if err != nil {
		return nil, fmt.Errorf("failed to start sync run: %w", err)
	}

	summary := &ImportSummary{Parsed: len(records)}
	if err := s.applyImport(records, summary); err != nil {
		_ = s.repo.CompleteSyncRun(runID, summary.BenefitsImported, summary.BenefitsSkipped, summary.OffersUpdated, err.Error())
		return nil, err
	}

	if err := s.repo.CompleteSyncRun(runID, summary.BenefitsImported, summary.BenefitsSkipped, summary.OffersUpdated, ""); err != nil {
		return nil, fmt.Errorf("failed to complete sync run: %w", err)
	}

	s.logger.Info("csv import complete",
		"parsed", summary.Parsed,
		"benefits_imported", summary.BenefitsImported,
		"benefits_skipped", summary.BenefitsSkipped,
		"offers_updated", summary.OffersUpdated)

	return summary, nil
}

func (s *ImportService) applyImport(records []statement.Record, summary *ImportSummary) error {
	benefits, err := s.repo.ListBenefits(true)
	if err != nil {
		return fmt.Errorf("failed to list benefits: %w", err)
	}
	byName := make(map[string]storage.Benefit, len(benefits))
	for _, b := range benefits {
		byName[b.Name] = b
	}

	// Benefits: classify statement credits against the rule list
	for _, rec := range records {
		if !rec.IsCredit {
			continue
		}
		name, ok := s.matcher.ClassifyCredit(rec.Description, rec.AmountCents)
		if !ok {
			continue
		}
		benefit, ok := byName[name]
		if !ok {
			// A rule matched but no benefit with that name is tracked
			s.logger.Debug("credit matched untracked benefit", "benefit", name)
			continue
		}

		periodKey := period.Key(period.Reset(benefit.ResetPeriod), rec.Date)

		exists, err := s.repo.HasUsage(benefit.ID, periodKey, rec.Description)
		if err != nil {
			return fmt.Errorf("failed to check usage: %w", err)
		}
		if exists {
			summary.BenefitsSkipped++
			continue
		}

		amount := s.capAgainstRecorded(benefit, periodKey, rec.AmountCents)
		usage := &storage.BenefitUsage{
			BenefitID:       benefit.ID,
			PeriodKey:       periodKey,
			AmountUsedCents: amount,
			Notes:           rec.Description,
			Source:          "csv",
		}
		if err := s.repo.RecordUsage(usage); err != nil {
			// Unique index caught a concurrent duplicate
			if errors.Is(err, storage.ErrDuplicateUsage) {
				summary.BenefitsSkipped++
				continue
			}
			return fmt.Errorf("failed to record usage: %w", err)
		}
		summary.BenefitsImported++
		summary.Matches = append(summary.Matches, UsageRecord{
			BenefitName: name,
			PeriodKey:   periodKey,
			AmountCents: amount,
			Notes:       rec.Description,
		})
	}

	// Offers: evaluate open enrollments against the whole statement
	enrollments, err := s.repo.ListEnrollments(true)
	if err != nil {
		return fmt.Errorf("failed to list enrollments: %w", err)
	}

	txns := statement.Transactions(records)
	for _, match := range s.matcher.MatchOffers(toDomainEnrollments(enrollments), txns) {
		if err := s.repo.MarkThresholdMet(match.EnrollmentID, match.TotalSpentCents, s.now()); err != nil {
			return fmt.Errorf("failed to mark threshold met: %w", err)
		}
		summary.OffersUpdated++
	}

	return nil
}

// capAgainstRecorded limits a new usage amount so cumulative recorded usage
// for the period never exceeds the benefit allotment. The matcher caps a
// single batch; merging across imports is this layer's job.
func (s *ImportService) capAgainstRecorded(benefit storage.Benefit, periodKey string, amountCents int64) int64 {
	existing, err := s.repo.ListUsage(benefit.ID, periodKey)
	if err != nil {
		// Cap check is best-effort; worst case the amount reads high until
		// the next recompute
		return amountCents
	}
	used := make([]int64, len(existing))
	for i, u := range existing {
		used[i] = u.AmountUsedCents
	}
	remaining := period.RemainingCents(benefit.AmountCents, used)
	if amountCents > remaining {
		return remaining
	}
	return amountCents
}

// BudgetSync recomputes current-period benefit usage and offer spend from a
// synced transaction batch. Usage rows are upserted per period, never
// accumulated, so re-running with a fresh batch self-corrects.
func (s *ImportService) BudgetSync(txns []matcher.Transaction) (*SyncSummary, error) {
	now := s.now()
	summary := &SyncSummary{}

	benefits, err := s.repo.ListBenefits(true)
	if err != nil {
		return nil, fmt.Errorf("failed to list benefits: %w", err)
	}

	matches := s.matcher.MatchBenefits(toDomainBenefits(benefits), txns, now)
	for _, match := range matches {
		usage := &storage.BenefitUsage{
			BenefitID:       match.BenefitID,
			PeriodKey:       match.PeriodKey,
			AmountUsedCents: match.AmountUsedCents,
			Source:          "budget-sync",
		}
		if err := s.repo.UpsertUsage(usage); err != nil {
			return nil, fmt.Errorf("failed to upsert usage: %w", err)
		}
		summary.BenefitsMatched++
	}

	enrollments, err := s.repo.ListEnrollments(true)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	for _, e := range enrollments {
		if e.SpendMinCents == nil || e.Merchant == "" {
			continue
		}
		spent := s.matcher.OfferSpend(e.Merchant, e.EnrolledAt, txns)
		if spent >= *e.SpendMinCents {
			if err := s.repo.MarkThresholdMet(e.ID, spent, now); err != nil {
				return nil, fmt.Errorf("failed to mark threshold met: %w", err)
			}
			summary.OffersUpdated++
		}
	}

	s.logger.Info("budget sync complete",
		"benefits_matched", summary.BenefitsMatched,
		"offers_updated", summary.OffersUpdated)

	return summary, nil
}

func toDomainBenefits(benefits []storage.Benefit) []matcher.Benefit {
	out := make([]matcher.Benefit, len(benefits))
	for i, b := range benefits {
		out[i] = matcher.Benefit{
			ID:          b.ID,
			Name:        b.Name,
			AmountCents: b.AmountCents,
			ResetPeriod: period.Reset(b.ResetPeriod),
		}
	}
	return out
}

func toDomainEnrollments(enrollments []storage.Enrollment) []matcher.EnrolledOffer {
	out := make([]matcher.EnrolledOffer, len(enrollments))
	for i, e := range enrollments {
		out[i] = matcher.EnrolledOffer{
			EnrollmentID:  e.ID,
			OfferID:       e.OfferID,
			Merchant:      e.Merchant,
			SpendMinCents: e.SpendMinCents,
			EnrolledAt:    e.EnrolledAt,
		}
	}
	return out
}
