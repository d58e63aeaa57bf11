package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetrate/fleetrate/internal/config"
	obslogger "github.com/fleetrate/fleetrate/internal/observability/logger"
	"github.com/fleetrate/fleetrate/internal/ratelimit"
	"github.com/fleetrate/fleetrate/internal/scheduler"

	demanddomain "github.com/fleetrate/fleetrate/internal/demand/domain"
	pricingdomain "github.com/fleetrate/fleetrate/internal/pricing/domain"
	ruledomain "github.com/fleetrate/fleetrate/internal/rule/domain"
	seasonalitydomain "github.com/fleetrate/fleetrate/internal/seasonality/domain"
	snapshotdomain "github.com/fleetrate/fleetrate/internal/snapshot/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
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
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	genID          *snowflake.Node
	pricingSvc     pricingdomain.Service
	demandSvc      demanddomain.Service
	seasonalitySvc seasonalitydomain.Service
	ruleSvc        ruledomain.Service
	snapshotRepo   snapshotdomain.Repository
	scheduler      *scheduler.Scheduler
	quoteLimiter   *ratelimit.QuoteLimiter
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	GenID          *snowflake.Node
	PricingSvc     pricingdomain.Service
	DemandSvc      demanddomain.Service
	SeasonalitySvc seasonalitydomain.Service
	RuleSvc        ruledomain.Service
	SnapshotRepo   snapshotdomain.Repository
	Scheduler      *scheduler.Scheduler      `optional:"true"`
	QuoteLimiter   *ratelimit.QuoteLimiter   `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		genID:          p.GenID,
		pricingSvc:     p.PricingSvc,
		demandSvc:      p.DemandSvc,
		seasonalitySvc: p.SeasonalitySvc,
		ruleSvc:        p.RuleSvc,
		snapshotRepo:   p.SnapshotRepo,
		scheduler:      p.Scheduler,
		quoteLimiter:   p.QuoteLimiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	quotes := v1.Group("/quotes")
	quotes.Use(s.rateLimitQuotes())
	{
		quotes.POST("", s.CreateQuote)
		quotes.POST("/preview", s.PreviewQuotes)
	}

	v1.GET("/cities/:id/demand", s.GetCityDemand)
	v1.GET("/vehicles/:id/snapshots", s.ListVehicleSnapshots)

	rules := v1.Group("/rules")
	{
		rules.POST("", s.CreateRule)
		rules.GET("", s.ListRules)
		rules.DELETE("/:id", s.DeactivateRule)
	}

	factors := v1.Group("/seasonal-factors")
	{
		factors.POST("", s.CreateSeasonalFactor)
		factors.GET("", s.ListSeasonalFactors)
		factors.DELETE("/:id", s.DeactivateSeasonalFactor)
	}

	v1.POST("/jobs/:name/run", s.RunJob)
}
