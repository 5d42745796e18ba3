package domain

import (
	"context"
	"errors"
	"strings"

	orderdomain "github.com/meshmart/meshmart/internal/order/domain"
)

// Notification is the gateway's asynchronous payment notification. Every
// field is kept as the wire-format string it arrived as; the signature was
// computed by the gateway over those exact strings.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
}

// Validate rejects notifications missing the fields the reconciliation
// engine cannot proceed without. Optional fields (payment_type, fraud_status,
// transaction_id) may be empty.
func (n Notification) Validate() error {
	if strings.TrimSpace(n.OrderID) == "" ||
		strings.TrimSpace(n.StatusCode) == "" ||
		strings.TrimSpace(n.GrossAmount) == "" ||
		strings.TrimSpace(n.SignatureKey) == "" ||
		strings.TrimSpace(n.TransactionStatus) == "" {
		return ErrInvalidNotification
	}
	return nil
}

// MapStatus translates the gateway's transaction status vocabulary to the
// internal order status. Unknown statuses map to PENDING: an unrecognized
// value must never flip an order to a terminal state.
func MapStatus(transactionStatus, fraudStatus string) orderdomain.Status {
	switch strings.ToLower(strings.TrimSpace(transactionStatus)) {
	case "capture":
		if strings.ToLower(strings.TrimSpace(fraudStatus)) == "accept" {
			return orderdomain.StatusPaid
		}
		return orderdomain.StatusPending
	case "settlement":
		return orderdomain.StatusPaid
	case "cancel", "deny", "expire":
		return orderdomain.StatusFailed
	case "pending":
		return orderdomain.StatusPending
	default:
		return orderdomain.StatusPending
	}
}

// GatewayTransaction is the payable handle returned by the gateway when a
// transaction is created.
type GatewayTransaction struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// TransactionGateway creates external payment transactions. Implementations
// are pure proxies; persisting the returned handle is the caller's job.
type TransactionGateway interface {
	CreateTransaction(ctx context.Context, orderID string, grossAmount int64) (GatewayTransaction, error)
}

type ReconcileResult struct {
	OrderStatus orderdomain.Status `json:"order_status"`
}

// Service reconciles inbound notifications against orders.
type Service interface {
	Reconcile(ctx context.Context, notif Notification, raw []byte) (ReconcileResult, error)
}

var (
	ErrInvalidNotification = errors.New("invalid_notification")
	ErrInvalidSignature    = errors.New("invalid_signature")
	ErrGatewayUnavailable  = errors.New("gateway_unavailable")
)
