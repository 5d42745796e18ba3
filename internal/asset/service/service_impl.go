package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/meshmart/meshmart/internal/asset/domain"
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
		log:   p.Log.Named("asset.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAssetRequest) (domain.Asset, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Asset{}, domain.ErrInvalidTitle
	}
	if req.Price <= 0 {
		return domain.Asset{}, domain.ErrInvalidPrice
	}

	now := time.Now().UTC()
	asset := domain.Asset{
		ID:          s.genID.Generate(),
		OwnerID:     req.OwnerID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &asset); err != nil {
		return domain.Asset{}, err
	}

	return asset, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Asset, error) {
	assetID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Asset{}, domain.ErrInvalidID
	}

	asset, err := s.repo.FindByID(ctx, s.db, assetID)
	if err != nil {
		return domain.Asset{}, err
	}
	if asset == nil {
		return domain.Asset{}, domain.ErrNotFound
	}
	return *asset, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Asset, error) {
	return s.repo.List(ctx, s.db)
}
