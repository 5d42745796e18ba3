package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/meshmart/meshmart/internal/asset/domain"
	assetrepository "github.com/meshmart/meshmart/internal/asset/repository"
	assetservice "github.com/meshmart/meshmart/internal/asset/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_assets_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.Exec(`CREATE TABLE assets (
		id BIGINT PRIMARY KEY,
		owner_id BIGINT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`).Error
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func newService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	svc := assetservice.New(assetservice.Params{
		DB:    setupTestDB(t),
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  assetrepository.Provide(),
	})
	return svc, node
}

func TestCreateAndGet(t *testing.T) {
	svc, node := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateAssetRequest{
		OwnerID:     node.Generate(),
		Title:       "  Low-poly spaceship  ",
		Description: "Rigged, 4k textures",
		Price:       2500,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Title != "Low-poly spaceship" {
		t.Fatalf("title not trimmed: %q", created.Title)
	}

	got, err := svc.GetByID(ctx, created.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price != 2500 || got.Title != created.Title {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, node := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateAssetRequest{OwnerID: node.Generate(), Title: "   ", Price: 100})
	if !errors.Is(err, domain.ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}

	_, err = svc.Create(ctx, domain.CreateAssetRequest{OwnerID: node.Generate(), Title: "Chair", Price: 0})
	if !errors.Is(err, domain.ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestGetByIDErrors(t *testing.T) {
	svc, node := newService(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, "not-an-id")
	if !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	_, err = svc.GetByID(ctx, node.Generate().String())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
