package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/meshmart/meshmart/internal/asset/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, asset *domain.Asset) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO assets (id, owner_id, title, description, price, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		asset.ID,
		asset.OwnerID,
		asset.Title,
		asset.Description,
		asset.Price,
		asset.CreatedAt,
		asset.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Asset, error) {
	var asset domain.Asset
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_id, title, description, price, created_at, updated_at
		 FROM assets WHERE id = ?`,
		id,
	).Scan(&asset).Error
	if err != nil {
		return nil, err
	}
	if asset.ID == 0 {
		return nil, nil
	}
	return &asset, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var assets []domain.Asset
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_id, title, description, price, created_at, updated_at
		 FROM assets WHERE id IN ?`,
		ids,
	).Scan(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Asset, error) {
	var assets []domain.Asset
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_id, title, description, price, created_at, updated_at
		 FROM assets ORDER BY created_at DESC, id DESC`,
	).Scan(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}
