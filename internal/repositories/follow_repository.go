package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// PostgresFollowRepository implements EdgeRepository for PostgreSQL.
// Uniqueness comes from the idx_follower_following unique index.
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// Migrate creates the follows table with its unique and check constraints
func (r *PostgresFollowRepository) Migrate(ctx context.Context) error {
	return storageError("migrate follows", r.db.WithContext(ctx).AutoMigrate(&models.FollowEdge{}))
}

func (r *PostgresFollowRepository) Create(ctx context.Context, followerID, followingID string) (*models.FollowEdge, error) {
	if followerID == followingID {
		return nil, ErrSelfReference
	}

	// timestamptz keeps microseconds; match it so the returned edge equals the stored one
	edge := &models.FollowEdge{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(edge).Error
	})
	if err != nil {
		switch {
		case isPgCode(err, pgUniqueViolation) || errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrAlreadyExists
		case isPgCode(err, pgCheckViolation) || errors.Is(err, gorm.ErrCheckConstraintViolated):
			return nil, ErrSelfReference
		}
		return nil, storageError("create follow", err)
	}
	return edge, nil
}

func (r *PostgresFollowRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.FollowEdge{})
	if res.Error != nil {
		return false, storageError("delete follow", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresFollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FollowEdge{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, storageError("check follow", err)
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) ListFollowing(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	return r.list(ctx, "follower_id = ?", userID)
}

func (r *PostgresFollowRepository) ListFollowers(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	return r.list(ctx, "following_id = ?", userID)
}

func (r *PostgresFollowRepository) list(ctx context.Context, where, userID string) ([]models.FollowEdge, error) {
	edges := []models.FollowEdge{}
	err := r.db.WithContext(ctx).
		Where(where, userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&edges).Error
	if err != nil {
		return nil, storageError("list follows", err)
	}
	return edges, nil
}

func (r *PostgresFollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "follower_id = ?", userID)
}

func (r *PostgresFollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "following_id = ?", userID)
}

func (r *PostgresFollowRepository) count(ctx context.Context, where, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FollowEdge{}).Where(where, userID).Count(&count).Error; err != nil {
		return 0, storageError("count follows", err)
	}
	return count, nil
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
