package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserDirectory resolves a user id to its display summary.
// Implementations return ErrUserNotFound for unknown ids.
type UserDirectory interface {
	Summarize(ctx context.Context, userID string) (*models.UserSummary, error)
}

// UserWriter seeds user records into a directory's backing store
type UserWriter interface {
	CreateUser(ctx context.Context, user *models.User) error
	// EnsureUser inserts the user unless a record with its id (or username) exists.
	// It reports whether a record was written.
	EnsureUser(ctx context.Context, user *models.User) (bool, error)
}

// PostgresUserRepository implements UserDirectory for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Migrate creates the users table
func (r *PostgresUserRepository) Migrate(ctx context.Context) error {
	return storageError("migrate users", r.db.WithContext(ctx).AutoMigrate(&models.User{}))
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return storageError("create user", r.db.WithContext(ctx).Create(user).Error)
}

func (r *PostgresUserRepository) EnsureUser(ctx context.Context, user *models.User) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(user)
	if res.Error != nil {
		return false, storageError("ensure user", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Summarize retrieves a user by ID and projects it to a summary
func (r *PostgresUserRepository) Summarize(ctx context.Context, userID string) (*models.UserSummary, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, storageError("get user", err)
	}
	return user.ToSummary(), nil
}
