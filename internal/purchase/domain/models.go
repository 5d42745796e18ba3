package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type License string

const LicensePersonalUse License = "personal_use"

// Purchase is a permanent entitlement: one row per (user, model). It is
// referenced by, but not owned by, the order it was granted from; refunds (if
// ever added) flag the row rather than delete it.
type Purchase struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;uniqueIndex:ux_purchases_user_model" json:"user_id"`
	ModelID   snowflake.ID `gorm:"not null;uniqueIndex:ux_purchases_user_model" json:"model_id"`
	OrderID   snowflake.ID `gorm:"not null" json:"order_id"`
	PricePaid int64        `gorm:"not null" json:"price_paid"`
	License   License      `gorm:"not null" json:"license"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

func (Purchase) TableName() string { return "purchases" }

type GrantRequest struct {
	UserID    snowflake.ID
	ModelID   snowflake.ID
	OrderID   snowflake.ID
	PricePaid int64
}

type Repository interface {
	// Insert writes the purchase unless one already exists for the
	// (user, model) pair, reporting whether a row was created.
	Insert(ctx context.Context, db *gorm.DB, purchase *Purchase) (bool, error)
	Find(ctx context.Context, db *gorm.DB, userID, modelID snowflake.ID) (*Purchase, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]Purchase, error)
}

type Service interface {
	// Grant is an idempotent upsert: safe to call any number of times,
	// concurrently or sequentially, for the same (user, model) pair.
	Grant(ctx context.Context, req GrantRequest) (Purchase, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Purchase, error)
}

var ErrInvalidGrant = errors.New("invalid_grant")
