package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meshmart/meshmart/internal/asset"
	assetdomain "github.com/meshmart/meshmart/internal/asset/domain"
	"github.com/meshmart/meshmart/internal/config"
	obslogger "github.com/meshmart/meshmart/internal/observability/logger"
	obsmetrics "github.com/meshmart/meshmart/internal/observability/metrics"
	"github.com/meshmart/meshmart/internal/order"
	orderdomain "github.com/meshmart/meshmart/internal/order/domain"
	"github.com/meshmart/meshmart/internal/payment"
	paymentdomain "github.com/meshmart/meshmart/internal/payment/domain"
	"github.com/meshmart/meshmart/internal/purchase"
	purchasedomain "github.com/meshmart/meshmart/internal/purchase/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	asset.Module,
	order.Module,
	payment.Module,
	purchase.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	assetSvc    assetdomain.Service
	orderSvc    orderdomain.Service
	paymentSvc  paymentdomain.Service
	purchaseSvc purchasedomain.Service
	obsMetrics  *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	AssetSvc    assetdomain.Service
	OrderSvc    orderdomain.Service
	PaymentSvc  paymentdomain.Service
	PurchaseSvc purchasedomain.Service
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		assetSvc:    p.AssetSvc,
		orderSvc:    p.OrderSvc,
		paymentSvc:  p.PaymentSvc,
		purchaseSvc: p.PurchaseSvc,
		obsMetrics:  p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Assets --------
	api.GET("/assets", s.ListAssets)
	api.GET("/assets/:id", s.GetAssetByID)
	api.POST("/assets", s.AuthRequired(), s.CreateAsset)

	// -------- Orders --------
	api.POST("/orders/checkout", s.AuthRequired(), s.Checkout)
	api.POST("/orders/:id/token", s.AuthRequired(), s.RetryOrderToken)
	api.GET("/orders/:id", s.AuthRequired(), s.GetOrderByID)

	// Trust is established by the payload signature, not a session.
	api.POST("/orders/notification", s.HandlePaymentNotification)

	// -------- Purchases --------
	api.GET("/purchases", s.AuthRequired(), s.ListPurchases)
}
