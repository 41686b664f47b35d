package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FollowEdge is a directed follow relationship (follower -> following).
// The pair (FollowerID, FollowingID) is unique and the two ids never match.
type FollowEdge struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FollowerID  string    `json:"follower_id" gorm:"type:varchar(64);not null;index;uniqueIndex:idx_follower_following"`
	FollowingID string    `json:"following_id" gorm:"type:varchar(64);not null;index;uniqueIndex:idx_follower_following;check:chk_follows_no_self,follower_id <> following_id"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// TableName keeps the relational table name stable across renames of the struct
func (FollowEdge) TableName() string { return "follows" }

// NewEdgeID returns a time-ordered id, so sorting by id follows creation order
func NewEdgeID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// BeforeCreate assigns an id when the caller did not
func (e *FollowEdge) BeforeCreate(tx *gorm.DB) error {
	if e.ID != "" {
		return nil
	}
	id, err := NewEdgeID()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// FollowDetail is a freshly created edge decorated with both users.
// Summaries are nil when the directory could not resolve them.
type FollowDetail struct {
	Edge      FollowEdge   `json:"edge"`
	Follower  *UserSummary `json:"follower,omitempty"`
	Following *UserSummary `json:"following,omitempty"`
}

// FollowStats holds edge counts for a single user
type FollowStats struct {
	UserID    string `json:"user_id"`
	Followers int64  `json:"followers"`
	Following int64  `json:"following"`
}
