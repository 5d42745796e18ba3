package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	assetdomain "github.com/meshmart/meshmart/internal/asset/domain"
	"github.com/meshmart/meshmart/internal/order/domain"
	paymentdomain "github.com/meshmart/meshmart/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	AssetRepo assetdomain.Repository
	Gateway   paymentdomain.TransactionGateway
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	assetRepo assetdomain.Repository
	gateway   paymentdomain.TransactionGateway
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("order.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		assetRepo: p.AssetRepo,
		gateway:   p.Gateway,
	}
}

// Checkout creates a PENDING order with prices snapshotted from the catalog,
// then asks the gateway for a payable token. A gateway failure leaves the
// order PENDING with no token; the client can retry via RetryToken.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	if len(req.ModelIDs) == 0 {
		return domain.CheckoutResponse{}, domain.ErrEmptyCart
	}

	modelIDs := make([]snowflake.ID, 0, len(req.ModelIDs))
	for _, raw := range req.ModelIDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			return domain.CheckoutResponse{}, assetdomain.ErrNotFound
		}
		modelIDs = append(modelIDs, id)
	}

	assets, err := s.assetRepo.FindByIDs(ctx, s.db, modelIDs)
	if err != nil {
		return domain.CheckoutResponse{}, err
	}
	priceByID := make(map[snowflake.ID]int64, len(assets))
	for _, asset := range assets {
		priceByID[asset.ID] = asset.Price
	}
	// All-or-nothing: a single unknown model fails the whole checkout.
	for _, id := range modelIDs {
		if _, ok := priceByID[id]; !ok {
			return domain.CheckoutResponse{}, assetdomain.ErrNotFound
		}
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:        s.genID.Generate(),
		UserID:    req.UserID,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, id := range modelIDs {
		price := priceByID[id]
		order.TotalAmount += price
		order.Items = append(order.Items, domain.OrderItem{
			ID:        s.genID.Generate(),
			OrderID:   order.ID,
			ModelID:   id,
			Price:     price,
			CreatedAt: now,
		})
	}
	if order.TotalAmount <= 0 {
		return domain.CheckoutResponse{}, domain.ErrAmountInvalid
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertOrder(ctx, tx, &order); err != nil {
			return err
		}
		return s.repo.InsertItems(ctx, tx, order.Items)
	})
	if err != nil {
		return domain.CheckoutResponse{}, err
	}

	gw, err := s.gateway.CreateTransaction(ctx, order.Reference(), order.TotalAmount)
	if err != nil {
		s.log.Warn("gateway transaction creation failed, order left pending",
			zap.String("order_id", order.Reference()),
			zap.Error(err),
		)
		// The order id still goes back to the caller: the order exists and
		// a token can be re-requested for it.
		return domain.CheckoutResponse{OrderID: order.Reference()}, err
	}

	if err := s.repo.UpdateGateway(ctx, s.db, order.ID, gw.Token, gw.RedirectURL, time.Now().UTC()); err != nil {
		return domain.CheckoutResponse{}, err
	}

	return domain.CheckoutResponse{
		OrderID:     order.Reference(),
		Token:       gw.Token,
		RedirectURL: gw.RedirectURL,
	}, nil
}

// RetryToken re-creates the gateway transaction for an order whose checkout
// succeeded but whose token acquisition failed.
func (s *Service) RetryToken(ctx context.Context, userID snowflake.ID, orderID string) (domain.CheckoutResponse, error) {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return domain.CheckoutResponse{}, err
	}
	if order.Status.Terminal() {
		return domain.CheckoutResponse{}, domain.ErrNotPending
	}

	gw, err := s.gateway.CreateTransaction(ctx, order.Reference(), order.TotalAmount)
	if err != nil {
		return domain.CheckoutResponse{}, err
	}

	if err := s.repo.UpdateGateway(ctx, s.db, order.ID, gw.Token, gw.RedirectURL, time.Now().UTC()); err != nil {
		return domain.CheckoutResponse{}, err
	}

	return domain.CheckoutResponse{
		OrderID:     order.Reference(),
		Token:       gw.Token,
		RedirectURL: gw.RedirectURL,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, userID snowflake.ID, orderID string) (domain.Order, error) {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func (s *Service) findOwned(ctx context.Context, userID snowflake.ID, orderID string) (*domain.Order, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(orderID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	order, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.UserID != userID {
		return nil, domain.ErrNotOwned
	}
	return order, nil
}
