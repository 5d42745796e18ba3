package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Asset is a 3D model listed on the marketplace. Price is in currency minor
// units and is read at checkout time only; orders snapshot it.
type Asset struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID     snowflake.ID `gorm:"not null;index" json:"owner_id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `json:"description,omitempty"`
	Price       int64        `gorm:"not null" json:"price"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (Asset) TableName() string { return "assets" }

type CreateAssetRequest struct {
	OwnerID     snowflake.ID
	Title       string
	Description string
	Price       int64
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, asset *Asset) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Asset, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Asset, error)
	List(ctx context.Context, db *gorm.DB) ([]Asset, error)
}

type Service interface {
	Create(ctx context.Context, req CreateAssetRequest) (Asset, error)
	GetByID(ctx context.Context, id string) (Asset, error)
	List(ctx context.Context) ([]Asset, error)
}

var (
	ErrInvalidTitle = errors.New("invalid_title")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("asset_not_found")
)
