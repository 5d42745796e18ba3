package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/meshmart/meshmart/internal/purchase/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("purchase.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// Grant inserts the entitlement behind the (user_id, model_id) uniqueness
// constraint and re-reads on conflict, so a duplicate grant returns the
// original row untouched. This is what makes redelivered webhooks harmless.
func (s *Service) Grant(ctx context.Context, req domain.GrantRequest) (domain.Purchase, error) {
	if req.UserID == 0 || req.ModelID == 0 {
		return domain.Purchase{}, domain.ErrInvalidGrant
	}

	purchase := domain.Purchase{
		ID:        s.genID.Generate(),
		UserID:    req.UserID,
		ModelID:   req.ModelID,
		OrderID:   req.OrderID,
		PricePaid: req.PricePaid,
		License:   domain.LicensePersonalUse,
		CreatedAt: time.Now().UTC(),
	}

	inserted, err := s.repo.Insert(ctx, s.db, &purchase)
	if err != nil {
		return domain.Purchase{}, err
	}
	if inserted {
		return purchase, nil
	}

	existing, err := s.repo.Find(ctx, s.db, req.UserID, req.ModelID)
	if err != nil {
		return domain.Purchase{}, err
	}
	if existing == nil {
		return domain.Purchase{}, errors.New("purchase_not_found_after_conflict")
	}
	return *existing, nil
}

func (s *Service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Purchase, error) {
	return s.repo.ListByUser(ctx, s.db, userID)
}
