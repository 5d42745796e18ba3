package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status is the order lifecycle state. PENDING may move to PAID, FAILED or
// CANCELLED; all three are absorbing.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusFailed || s == StatusCancelled
}

// Order is a checkout unit. TotalAmount and item prices are snapshotted from
// the catalog at creation and never re-read. The snowflake ID rendered as a
// string is the order reference the gateway correlates notifications by.
type Order struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID             snowflake.ID `gorm:"not null;index" json:"user_id"`
	TotalAmount        int64        `gorm:"not null" json:"total_amount"`
	Status             Status       `gorm:"not null" json:"status"`
	GatewayToken       string       `json:"gateway_token,omitempty"`
	GatewayRedirectURL string       `json:"gateway_redirect_url,omitempty"`
	CreatedAt          time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null" json:"updated_at"`

	Items    []OrderItem      `gorm:"-" json:"items,omitempty"`
	Payments []PaymentAttempt `gorm:"-" json:"payments,omitempty"`
}

func (Order) TableName() string { return "orders" }

// Reference is the external order id sent to and received from the gateway.
func (o Order) Reference() string { return o.ID.String() }

type OrderItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID   snowflake.ID `gorm:"not null;index" json:"order_id"`
	ModelID   snowflake.ID `gorm:"not null" json:"model_id"`
	Price     int64        `gorm:"not null" json:"price"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }

// PaymentAttempt is the append-only audit row written for every verified
// gateway notification, duplicates included. Never mutated or deleted.
type PaymentAttempt struct {
	ID                snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrderID           snowflake.ID   `gorm:"not null;index" json:"order_id"`
	TransactionID     string         `json:"transaction_id"`
	PaymentType       string         `json:"payment_type"`
	GrossAmount       string         `json:"gross_amount"`
	TransactionStatus string         `json:"transaction_status"`
	FraudStatus       string         `json:"fraud_status"`
	RawPayload        datatypes.JSON `gorm:"type:jsonb" json:"raw_payload"`
	ReceivedAt        time.Time      `gorm:"not null" json:"received_at"`
}

func (PaymentAttempt) TableName() string { return "payment_attempts" }

type CheckoutRequest struct {
	UserID   snowflake.ID
	ModelIDs []string
}

type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type Service interface {
	Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error)
	RetryToken(ctx context.Context, userID snowflake.ID, orderID string) (CheckoutResponse, error)
	GetByID(ctx context.Context, userID snowflake.ID, orderID string) (Order, error)
}

type Repository interface {
	InsertOrder(ctx context.Context, db *gorm.DB, order *Order) error
	InsertItems(ctx context.Context, db *gorm.DB, items []OrderItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	UpdateGateway(ctx context.Context, db *gorm.DB, id snowflake.ID, token, redirectURL string, now time.Time) error
	// TransitionStatus applies the from→to move only if the order is still in
	// from, reporting whether a row changed. Losing races and terminal orders
	// no-op.
	TransitionStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to Status, now time.Time) (bool, error)
	AppendAttempt(ctx context.Context, db *gorm.DB, attempt *PaymentAttempt) error
}

var (
	ErrEmptyCart     = errors.New("empty_cart")
	ErrInvalidID     = errors.New("invalid_order_id")
	ErrNotFound      = errors.New("order_not_found")
	ErrNotPending    = errors.New("order_not_pending")
	ErrNotOwned      = errors.New("order_not_owned")
	ErrAmountInvalid = errors.New("order_amount_invalid")
)
