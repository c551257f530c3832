// Package storage provides SQLite persistence for cards, benefits, offers,
// and import history.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// Sentinel errors returned by repository methods.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateUsage = errors.New("usage already recorded")
)

// Storage provides SQLite database access.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// ─── Cards ───────────────────────────────────────────────────────────────

// SaveCard inserts or replaces a card and its full category list.
func (s *Storage) SaveCard(card *Card) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if card.ID == "" {
		card.ID = uuid.NewString()
	}

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO cards (id, name, reward_currency, color, position)
		VALUES (?, ?, ?, ?, COALESCE((SELECT position FROM cards WHERE id = ?), (SELECT COUNT(*) FROM cards)))
	`, card.ID, card.Name, card.RewardCurrency, card.Color, card.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM card_categories WHERE card_id = ?`, card.ID); err != nil {
		return err
	}

	for i, c := range card.Categories {
		if _, err := tx.Exec(`
			INSERT INTO card_categories (card_id, category_name, earn_rate, earn_type, notes, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`, card.ID, c.Name, c.EarnRate, c.EarnType, c.Notes, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListCards returns all cards with their categories in insertion order.
// Category order matters downstream: ranking tie-breaks follow it.
func (s *Storage) ListCards() ([]Card, error) {
	rows, err := s.db.Query(`SELECT id, name, reward_currency, color FROM cards ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		var c Card
		if err := rows.Scan(&c.ID, &c.Name, &c.RewardCurrency, &c.Color); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range cards {
		categories, err := s.listCategories(cards[i].ID)
		if err != nil {
			return nil, err
		}
		cards[i].Categories = categories
	}

	return cards, nil
}

func (s *Storage) listCategories(cardID string) ([]CardCategory, error) {
	rows, err := s.db.Query(`
		SELECT category_name, earn_rate, earn_type, notes
		FROM card_categories WHERE card_id = ? ORDER BY position
	`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []CardCategory
	for rows.Next() {
		var c CardCategory
		var notes sql.NullString
		if err := rows.Scan(&c.Name, &c.EarnRate, &c.EarnType, &notes); err != nil {
			return nil, err
		}
		if notes.Valid {
			c.Notes = &notes.String
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ─── Benefits ────────────────────────────────────────────────────────────

// SaveBenefit inserts or replaces a benefit.
func (s *Storage) SaveBenefit(benefit *Benefit) error {
	if benefit.ID == "" {
		benefit.ID = uuid.NewString()
	}
	if benefit.CreatedAt.IsZero() {
		benefit.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO benefits (id, name, amount_cents, reset_period, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, benefit.ID, benefit.Name, benefit.AmountCents, benefit.ResetPeriod, benefit.Active, benefit.CreatedAt)
	return err
}

// ListBenefits returns benefits ordered by name.
func (s *Storage) ListBenefits(activeOnly bool) ([]Benefit, error) {
	query := `SELECT id, name, amount_cents, reset_period, active, created_at FROM benefits`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var benefits []Benefit
	for rows.Next() {
		var b Benefit
		if err := rows.Scan(&b.ID, &b.Name, &b.AmountCents, &b.ResetPeriod, &b.Active, &b.CreatedAt); err != nil {
			return nil, err
		}
		benefits = append(benefits, b)
	}
	return benefits, rows.Err()
}

// GetBenefit retrieves a benefit by ID.
func (s *Storage) GetBenefit(id string) (*Benefit, error) {
	b := &Benefit{}
	err := s.db.QueryRow(`
		SELECT id, name, amount_cents, reset_period, active, created_at
		FROM benefits WHERE id = ?
	`, id).Scan(&b.ID, &b.Name, &b.AmountCents, &b.ResetPeriod, &b.Active, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListUsage returns usage rows for a benefit period, oldest first.
func (s *Storage) ListUsage(benefitID, periodKey string) ([]BenefitUsage, error) {
	rows, err := s.db.Query(`
		SELECT id, benefit_id, period_key, amount_used_cents, notes, source, created_at
		FROM benefit_usage WHERE benefit_id = ? AND period_key = ?
		ORDER BY created_at, id
	`, benefitID, periodKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []BenefitUsage
	for rows.Next() {
		var u BenefitUsage
		if err := rows.Scan(&u.ID, &u.BenefitID, &u.PeriodKey, &u.AmountUsedCents, &u.Notes, &u.Source, &u.CreatedAt); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

// HasUsage checks the import dedup key.
func (s *Storage) HasUsage(benefitID, periodKey, notes string) (bool, error) {
	var one int
	err := s.db.QueryRow(`
		SELECT 1 FROM benefit_usage WHERE benefit_id = ? AND period_key = ? AND notes = ?
	`, benefitID, periodKey, notes).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RecordUsage inserts a usage row. The unique dedup index backs up the
// caller's check-then-insert: a constraint hit maps to ErrDuplicateUsage.
func (s *Storage) RecordUsage(usage *BenefitUsage) error {
	if usage.ID == "" {
		usage.ID = uuid.NewString()
	}
	if usage.CreatedAt.IsZero() {
		usage.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO benefit_usage (id, benefit_id, period_key, amount_used_cents, notes, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, usage.ID, usage.BenefitID, usage.PeriodKey, usage.AmountUsedCents, usage.Notes, usage.Source, usage.CreatedAt)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicateUsage
	}
	return err
}

// UpsertUsage inserts a usage row, replacing any row with the same dedup key.
func (s *Storage) UpsertUsage(usage *BenefitUsage) error {
	if usage.ID == "" {
		usage.ID = uuid.NewString()
	}
	if usage.CreatedAt.IsZero() {
		usage.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO benefit_usage (id, benefit_id, period_key, amount_used_cents, notes, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(benefit_id, period_key, notes) DO UPDATE SET
			amount_used_cents = excluded.amount_used_cents,
			source = excluded.source,
			created_at = excluded.created_at
	`, usage.ID, usage.BenefitID, usage.PeriodKey, usage.AmountUsedCents, usage.Notes, usage.Source, usage.CreatedAt)
	return err
}

// ─── Offers ──────────────────────────────────────────────────────────────

// SaveOffer inserts or replaces an offer.
func (s *Storage) SaveOffer(offer *Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO offers (id, merchant, description, spend_min_cents)
		VALUES (?, ?, ?, ?)
	`, offer.ID, offer.Merchant, offer.Description, offer.SpendMinCents)
	return err
}

// ListOffers returns all offers in insertion order.
func (s *Storage) ListOffers() ([]Offer, error) {
	rows, err := s.db.Query(`
		SELECT id, merchant, description, spend_min_cents
		FROM offers ORDER BY rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		var o Offer
		var spendMin sql.NullInt64
		if err := rows.Scan(&o.ID, &o.Merchant, &o.Description, &spendMin); err != nil {
			return nil, err
		}
		if spendMin.Valid {
			o.SpendMinCents = &spendMin.Int64
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// GetOffer retrieves an offer by ID.
func (s *Storage) GetOffer(id string) (*Offer, error) {
	var o Offer
	var spendMin sql.NullInt64
	err := s.db.QueryRow(`
		SELECT id, merchant, description, spend_min_cents
		FROM offers WHERE id = ?
	`, id).Scan(&o.ID, &o.Merchant, &o.Description, &spendMin)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if spendMin.Valid {
		o.SpendMinCents = &spendMin.Int64
	}
	return &o, nil
}

// Enroll records an enrollment in an offer.
func (s *Storage) Enroll(enrollment *Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO enrolled_offers (id, offer_id, enrolled_at, threshold_met, spent_amount_cents, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, enrollment.ID, enrollment.OfferID, enrollment.EnrolledAt, enrollment.ThresholdMet,
		enrollment.SpentCents, enrollment.CompletedAt)
	return err
}

// ListEnrollments returns enrollments joined with their offer details.
func (s *Storage) ListEnrollments(openOnly bool) ([]Enrollment, error) {
	query := `
		SELECT e.id, e.offer_id, o.merchant, o.spend_min_cents,
		       e.enrolled_at, e.threshold_met, e.spent_amount_cents, e.completed_at
		FROM enrolled_offers e
		JOIN offers o ON o.id = e.offer_id`
	if openOnly {
		query += ` WHERE e.threshold_met = 0`
	}
	query += ` ORDER BY e.enrolled_at, e.id`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []Enrollment
	for rows.Next() {
		var e Enrollment
		var spendMin sql.NullInt64
		var completedAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.OfferID, &e.Merchant, &spendMin,
			&e.EnrolledAt, &e.ThresholdMet, &e.SpentCents, &completedAt); err != nil {
			return nil, err
		}
		if spendMin.Valid {
			e.SpendMinCents = &spendMin.Int64
		}
		if completedAt.Valid {
			e.CompletedAt = &completedAt.Time
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// MarkThresholdMet flips an enrollment to met with its final spend amount.
func (s *Storage) MarkThresholdMet(enrollmentID string, spentCents int64, completedAt time.Time) error {
	result, err := s.db.Exec(`
		UPDATE enrolled_offers
		SET threshold_met = 1, spent_amount_cents = ?, completed_at = ?
		WHERE id = ?
	`, spentCents, completedAt, enrollmentID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Sync runs ───────────────────────────────────────────────────────────

// StartSyncRun opens a run and returns its ID.
func (s *Storage) StartSyncRun(source string) (int64, error) {
	result, err := s.db.Exec(`INSERT INTO sync_runs (source) VALUES (?)`, source)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CompleteSyncRun closes a run with its counters.
func (s *Storage) CompleteSyncRun(id int64, imported, skipped, offersUpdated int, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE sync_runs
		SET completed_at = CURRENT_TIMESTAMP, imported = ?, skipped = ?, offers_updated = ?, error_message = ?
		WHERE id = ?
	`, imported, skipped, offersUpdated, errorMessage, id)
	return err
}

// ListSyncRuns returns the most recent runs, newest first.
func (s *Storage) ListSyncRuns(limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, source, started_at, completed_at, imported, skipped, offers_updated, error_message
		FROM sync_runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		var r SyncRun
		var completedAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.Source, &r.StartedAt, &completedAt,
			&r.Imported, &r.Skipped, &r.OffersUpdated, &r.ErrorMessage); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			r.CompletedAt = &completedAt.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
