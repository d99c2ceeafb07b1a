// Package userdb implements PortfolioStore using BadgerHold.
// It stores positions, accounts and settings scoped per user.
package userdb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/interfaces"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// Store implements interfaces.PortfolioStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new PortfolioStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create userdb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open userdb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("UserDB opened")
	return &Store{db: db, logger: logger}, nil
}

// --- Positions ---

func (s *Store) ListPositions(_ context.Context, userID string) ([]*models.Position, error) {
	var all []models.Position
	if err := s.db.Find(&all, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	// Oldest first so grouping and display order are stable.
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	result := make([]*models.Position, len(all))
	for i := range all {
		result[i] = &all[i]
	}
	return result, nil
}

func (s *Store) GetPosition(_ context.Context, userID, id string) (*models.Position, error) {
	var pos models.Position
	if err := s.db.Get(id, &pos); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("position '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get position '%s': %w", id, err)
	}
	if pos.UserID != userID {
		return nil, fmt.Errorf("position '%s' not found", id)
	}
	return &pos, nil
}

func (s *Store) SavePosition(_ context.Context, position *models.Position) error {
	now := time.Now()
	if position.ID == "" {
		position.ID = uuid.New().String()
		position.CreatedAt = now
	}
	if position.CreatedAt.IsZero() {
		position.CreatedAt = now
	}
	position.UpdatedAt = now

	if err := s.db.Upsert(position.ID, position); err != nil {
		return fmt.Errorf("failed to save position '%s': %w", position.Ticker, err)
	}
	return nil
}

func (s *Store) DeletePosition(ctx context.Context, userID, id string) error {
	if _, err := s.GetPosition(ctx, userID, id); err != nil {
		return err
	}
	if err := s.db.Delete(id, models.Position{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete position '%s': %w", id, err)
	}
	return nil
}

// --- Accounts ---

func (s *Store) ListAccounts(_ context.Context, userID string) ([]*models.Account, error) {
	var all []models.Account
	if err := s.db.Find(&all, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	result := make([]*models.Account, len(all))
	for i := range all {
		result[i] = &all[i]
	}
	return result, nil
}

func (s *Store) GetAccount(_ context.Context, userID, id string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Get(id, &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("account '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get account '%s': %w", id, err)
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("account '%s' not found", id)
	}
	return &account, nil
}

func (s *Store) SaveAccount(_ context.Context, account *models.Account) error {
	now := time.Now()
	if account.ID == "" {
		account.ID = uuid.New().String()
		account.CreatedAt = now
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	if err := s.db.Upsert(account.ID, account); err != nil {
		return fmt.Errorf("failed to save account '%s': %w", account.Name, err)
	}
	return nil
}

// EnsureAccount finds an account matching the criteria or creates one.
// Match is by name when a name is given, otherwise by currency. Idempotent.
func (s *Store) EnsureAccount(ctx context.Context, userID string, criteria interfaces.AccountCriteria) (*models.Account, error) {
	accounts, err := s.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		if criteria.Name != "" {
			if account.Name == criteria.Name {
				return account, nil
			}
		} else if account.Currency == criteria.Currency {
			return account, nil
		}
	}

	name := criteria.Name
	if name == "" {
		name = "Portfolio"
	}
	currency := criteria.Currency
	if currency == "" {
		currency = "HKD"
	}

	account := &models.Account{
		UserID:   userID,
		Name:     name,
		Currency: currency,
	}
	if err := s.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", userID).
		Str("name", name).
		Str("currency", currency).
		Msg("Account created")
	return account, nil
}

// --- Settings ---

func (s *Store) GetOrCreateSettings(_ context.Context, userID string) (*models.Settings, error) {
	var settings models.Settings
	err := s.db.Get(userID, &settings)
	if err == nil {
		return &settings, nil
	}
	if err != badgerhold.ErrNotFound {
		return nil, fmt.Errorf("failed to get settings for user '%s': %w", userID, err)
	}

	created := models.NewDefaultSettings(userID)
	if err := s.db.Upsert(userID, created); err != nil {
		return nil, fmt.Errorf("failed to create settings for user '%s': %w", userID, err)
	}
	return created, nil
}

func (s *Store) SaveSettings(_ context.Context, settings *models.Settings) error {
	settings.UpdatedAt = time.Now()
	if err := s.db.Upsert(settings.UserID, settings); err != nil {
		return fmt.Errorf("failed to save settings for user '%s': %w", settings.UserID, err)
	}
	return nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check
var _ interfaces.PortfolioStore = (*Store)(nil)
