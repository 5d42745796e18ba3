package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/meshmart/meshmart/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertOrder(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (id, user_id, total_amount, status, gateway_token, gateway_redirect_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.UserID,
		order.TotalAmount,
		order.Status,
		order.GatewayToken,
		order.GatewayRedirectURL,
		order.CreatedAt,
		order.UpdatedAt,
	).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.OrderItem) error {
	for i := range items {
		item := items[i]
		err := db.WithContext(ctx).Exec(
			`INSERT INTO order_items (id, order_id, model_id, price, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			item.ID,
			item.OrderID,
			item.ModelID,
			item.Price,
			item.CreatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, total_amount, status, gateway_token, gateway_redirect_url, created_at, updated_at
		 FROM orders WHERE id = ?`,
		id,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}

	err = db.WithContext(ctx).Raw(
		`SELECT id, order_id, model_id, price, created_at
		 FROM order_items WHERE order_id = ? ORDER BY id`,
		id,
	).Scan(&order.Items).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Raw(
		`SELECT id, order_id, transaction_id, payment_type, gross_amount, transaction_status, fraud_status, raw_payload, received_at
		 FROM payment_attempts WHERE order_id = ? ORDER BY received_at, id`,
		id,
	).Scan(&order.Payments).Error
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *repo) UpdateGateway(ctx context.Context, db *gorm.DB, id snowflake.ID, token, redirectURL string, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET gateway_token = ?, gateway_redirect_url = ?, updated_at = ?
		 WHERE id = ?`,
		token,
		redirectURL,
		now,
		id,
	).Error
}

func (r *repo) TransitionStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to domain.Status, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET status = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		to,
		now,
		id,
		from,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) AppendAttempt(ctx context.Context, db *gorm.DB, attempt *domain.PaymentAttempt) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payment_attempts (id, order_id, transaction_id, payment_type, gross_amount, transaction_status, fraud_status, raw_payload, received_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.ID,
		attempt.OrderID,
		attempt.TransactionID,
		attempt.PaymentType,
		attempt.GrossAmount,
		attempt.TransactionStatus,
		attempt.FraudStatus,
		attempt.RawPayload,
		attempt.ReceivedAt,
	).Error
}
