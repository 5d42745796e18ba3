package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/meshmart/meshmart/internal/purchase/domain"
	pkgdb "github.com/meshmart/meshmart/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, purchase *domain.Purchase) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO purchases (id, user_id, model_id, order_id, price_paid, license, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, model_id) DO NOTHING`,
		purchase.ID,
		purchase.UserID,
		purchase.ModelID,
		purchase.OrderID,
		purchase.PricePaid,
		purchase.License,
		purchase.CreatedAt,
	)
	if res.Error != nil {
		// Some dialects surface the conflict as an error instead of a
		// silent no-op.
		if pkgdb.IsDuplicateKeyErr(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, userID, modelID snowflake.ID) (*domain.Purchase, error) {
	var purchase domain.Purchase
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, model_id, order_id, price_paid, license, created_at
		 FROM purchases WHERE user_id = ? AND model_id = ?`,
		userID,
		modelID,
	).Scan(&purchase).Error
	if err != nil {
		return nil, err
	}
	if purchase.ID == 0 {
		return nil, nil
	}
	return &purchase, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, model_id, order_id, price_paid, license, created_at
		 FROM purchases WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	).Scan(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}
