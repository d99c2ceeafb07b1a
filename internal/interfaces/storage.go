package interfaces

import (
	"context"

	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// AccountCriteria selects or creates an account in EnsureAccount. When Name
// is set, the account is matched by name; otherwise by currency. Currency is
// also the currency a newly created account gets.
type AccountCriteria struct {
	Name     string
	Currency string
}

// PortfolioStore persists positions, accounts and settings, scoped per user.
type PortfolioStore interface {
	ListPositions(ctx context.Context, userID string) ([]*models.Position, error)
	GetPosition(ctx context.Context, userID, id string) (*models.Position, error)
	SavePosition(ctx context.Context, position *models.Position) error
	DeletePosition(ctx context.Context, userID, id string) error

	ListAccounts(ctx context.Context, userID string) ([]*models.Account, error)
	GetAccount(ctx context.Context, userID, id string) (*models.Account, error)
	SaveAccount(ctx context.Context, account *models.Account) error
	// EnsureAccount finds an account matching the criteria or creates one.
	// Idempotent: calling it twice with the same criteria returns the same
	// account.
	EnsureAccount(ctx context.Context, userID string, criteria AccountCriteria) (*models.Account, error)

	// GetOrCreateSettings returns the user's settings, lazily creating the
	// defaults on first access. Idempotent.
	GetOrCreateSettings(ctx context.Context, userID string) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) error

	Close() error
}

// InternalStore manages login accounts and system-level key-value config.
type InternalStore interface {
	GetUser(ctx context.Context, userID string) (*models.InternalUser, error)
	SaveUser(ctx context.Context, user *models.InternalUser) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)

	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error

	Close() error
}

// StorageManager coordinates the storage areas.
type StorageManager interface {
	PortfolioStore() PortfolioStore
	InternalStore() InternalStore
	Close() error
}
