package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	obsmetrics "github.com/meshmart/meshmart/internal/observability/metrics"
	orderdomain "github.com/meshmart/meshmart/internal/order/domain"
	paymentdomain "github.com/meshmart/meshmart/internal/payment/domain"
	"github.com/meshmart/meshmart/internal/payment/signature"
	purchasedomain "github.com/meshmart/meshmart/internal/purchase/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Verifier    *signature.Verifier
	OrderRepo   orderdomain.Repository
	PurchaseSvc purchasedomain.Service
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	verifier    *signature.Verifier
	orderRepo   orderdomain.Repository
	purchaseSvc purchasedomain.Service
	obsMetrics  *obsmetrics.Metrics
}

func New(p Params) paymentdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("payment.service"),
		genID:       p.GenID,
		verifier:    p.Verifier,
		orderRepo:   p.OrderRepo,
		purchaseSvc: p.PurchaseSvc,
		obsMetrics:  p.ObsMetrics,
	}
}

// Reconcile applies one gateway notification against its order.
//
// Nothing is written before the signature check passes. The status move is a
// compare-and-swap from PENDING, so a terminal order never regresses and the
// loser of two concurrent deliveries no-ops; the audit row is appended
// unconditionally in the same transaction. Grants run only when the
// post-transaction status is PAID, and are themselves idempotent, so a
// redelivery after the winning delivery is harmless.
func (s *Service) Reconcile(ctx context.Context, notif paymentdomain.Notification, raw []byte) (paymentdomain.ReconcileResult, error) {
	if err := notif.Validate(); err != nil {
		return paymentdomain.ReconcileResult{}, err
	}

	orderID, err := snowflake.ParseString(strings.TrimSpace(notif.OrderID))
	if err != nil {
		return paymentdomain.ReconcileResult{}, orderdomain.ErrNotFound
	}
	order, err := s.orderRepo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return paymentdomain.ReconcileResult{}, err
	}
	if order == nil {
		s.log.Warn("notification for unknown order",
			zap.String("order_id", notif.OrderID),
			zap.String("transaction_id", notif.TransactionID),
		)
		return paymentdomain.ReconcileResult{}, orderdomain.ErrNotFound
	}

	if !s.verifier.Verify(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		s.log.Warn("rejected notification with invalid signature",
			zap.String("order_id", notif.OrderID),
			zap.String("transaction_id", notif.TransactionID),
		)
		s.record("invalid_signature")
		return paymentdomain.ReconcileResult{}, paymentdomain.ErrInvalidSignature
	}

	next := paymentdomain.MapStatus(notif.TransactionStatus, notif.FraudStatus)
	now := time.Now().UTC()
	attempt := orderdomain.PaymentAttempt{
		ID:                s.genID.Generate(),
		OrderID:           order.ID,
		TransactionID:     strings.TrimSpace(notif.TransactionID),
		PaymentType:       strings.TrimSpace(notif.PaymentType),
		GrossAmount:       notif.GrossAmount,
		TransactionStatus: strings.TrimSpace(notif.TransactionStatus),
		FraudStatus:       strings.TrimSpace(notif.FraudStatus),
		RawPayload:        datatypes.JSON(raw),
		ReceivedAt:        now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if next != orderdomain.StatusPending {
			applied, err := s.orderRepo.TransitionStatus(ctx, tx, order.ID, orderdomain.StatusPending, next, now)
			if err != nil {
				return err
			}
			if !applied {
				s.log.Info("order status unchanged by notification",
					zap.String("order_id", notif.OrderID),
					zap.String("transaction_status", notif.TransactionStatus),
				)
			}
		}
		return s.orderRepo.AppendAttempt(ctx, tx, &attempt)
	})
	if err != nil {
		return paymentdomain.ReconcileResult{}, err
	}

	// Reload: a concurrent delivery may have won the transition.
	current, err := s.orderRepo.FindByID(ctx, s.db, order.ID)
	if err != nil {
		return paymentdomain.ReconcileResult{}, err
	}
	if current == nil {
		return paymentdomain.ReconcileResult{}, orderdomain.ErrNotFound
	}

	if current.Status == orderdomain.StatusPaid {
		for _, item := range current.Items {
			_, err := s.purchaseSvc.Grant(ctx, purchasedomain.GrantRequest{
				UserID:    current.UserID,
				ModelID:   item.ModelID,
				OrderID:   current.ID,
				PricePaid: item.Price,
			})
			if err != nil {
				return paymentdomain.ReconcileResult{}, err
			}
		}
	}

	s.record(strings.ToLower(string(current.Status)))
	return paymentdomain.ReconcileResult{OrderStatus: current.Status}, nil
}

func (s *Service) record(result string) {
	if s.obsMetrics != nil {
		s.obsMetrics.RecordNotification(result)
	}
}
