package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/segmenta/internal/config"
	"github.com/smallbiznis/segmenta/internal/customer"
	customerdomain "github.com/smallbiznis/segmenta/internal/customer/domain"
	"github.com/smallbiznis/segmenta/internal/notification"
	notificationdomain "github.com/smallbiznis/segmenta/internal/notification/domain"
	"github.com/smallbiznis/segmenta/internal/notification/evaluator"
	obsmetrics "github.com/smallbiznis/segmenta/internal/observability/metrics"
	"github.com/smallbiznis/segmenta/internal/providers/telegram"
	"github.com/smallbiznis/segmenta/internal/segmentation"
	segmentationdomain "github.com/smallbiznis/segmenta/internal/segmentation/domain"
	"github.com/smallbiznis/segmenta/internal/transaction"
	transactiondomain "github.com/smallbiznis/segmenta/internal/transaction/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	customer.Module,
	transaction.Module,
	segmentation.Module,
	notification.Module,
	evaluator.Module,
	telegram.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CorrelationID())
	r.Use(obsmetrics.GinMiddleware(obsmetrics.HTTP()))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin() *gin.Engine {
	return NewEngine()
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
	customerSvc    customerdomain.Service
	transactionSvc transactiondomain.Service
	segmentSvc     segmentationdomain.Service
	alertRunner    notificationdomain.Runner
}

type ServerParams struct {
	fx.In

	Engine         *gin.Engine
	CustomerSvc    customerdomain.Service
	TransactionSvc transactiondomain.Service
	SegmentSvc     segmentationdomain.Service
	AlertRunner    notificationdomain.Runner
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:         p.Engine,
		customerSvc:    p.CustomerSvc,
		transactionSvc: p.TransactionSvc,
		segmentSvc:     p.SegmentSvc,
		alertRunner:    p.AlertRunner,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")
	v1.Use(OwnerContext())

	v1.POST("/customers", s.CreateCustomer)
	v1.GET("/customers", s.ListCustomers)
	v1.GET("/customers/:id", s.GetCustomerByID)

	v1.POST("/transactions", s.RecordTransaction)
	v1.GET("/transactions", s.ListTransactions)

	v1.GET("/segments", s.ListSegments)

	v1.POST("/alerts/run", s.RunAlerts)
}
