package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/gridbill/internal/authorization"
	billdomain "github.com/smallbiznis/gridbill/internal/bill/domain"
	"github.com/smallbiznis/gridbill/internal/config"
	customerdomain "github.com/smallbiznis/gridbill/internal/customer/domain"
	extrachargedomain "github.com/smallbiznis/gridbill/internal/extracharge/domain"
	finedomain "github.com/smallbiznis/gridbill/internal/fineslab/domain"
	"github.com/smallbiznis/gridbill/internal/observability"
	obsmiddleware "github.com/smallbiznis/gridbill/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/gridbill/internal/observability/metrics"
	obstracing "github.com/smallbiznis/gridbill/internal/observability/tracing"
	paymentdomain "github.com/smallbiznis/gridbill/internal/payment/domain"
	"github.com/smallbiznis/gridbill/internal/ratelimit"
	ratingdomain "github.com/smallbiznis/gridbill/internal/rating/domain"
	readingdomain "github.com/smallbiznis/gridbill/internal/reading/domain"
	staffdomain "github.com/smallbiznis/gridbill/internal/staff/domain"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	if httpMetrics != nil {
		r.Use(httpMetrics.GinMiddleware())
	}
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, s *Server) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
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
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger

	authzSvc       authorization.Service
	tariffSvc      tariffdomain.Service
	extraChargeSvc extrachargedomain.Service
	fineSlabSvc    finedomain.Service
	ratingSvc      ratingdomain.Service
	customerSvc    customerdomain.Service
	staffSvc       staffdomain.Service
	readingSvc     readingdomain.Service
	billSvc        billdomain.Service
	paymentSvc     paymentdomain.Service
	verifyGuard    *ratelimit.VerifyGuard
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	Log            *zap.Logger
	AuthzSvc       authorization.Service
	TariffSvc      tariffdomain.Service
	ExtraChargeSvc extrachargedomain.Service
	FineSlabSvc    finedomain.Service
	RatingSvc      ratingdomain.Service
	CustomerSvc    customerdomain.Service
	StaffSvc       staffdomain.Service
	ReadingSvc     readingdomain.Service
	BillSvc        billdomain.Service
	PaymentSvc     paymentdomain.Service
	VerifyGuard    *ratelimit.VerifyGuard
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		log:            p.Log.Named("http.server"),
		authzSvc:       p.AuthzSvc,
		tariffSvc:      p.TariffSvc,
		extraChargeSvc: p.ExtraChargeSvc,
		fineSlabSvc:    p.FineSlabSvc,
		ratingSvc:      p.RatingSvc,
		customerSvc:    p.CustomerSvc,
		staffSvc:       p.StaffSvc,
		readingSvc:     p.ReadingSvc,
		billSvc:        p.BillSvc,
		paymentSvc:     p.PaymentSvc,
		verifyGuard:    p.VerifyGuard,
	}

	svc.registerPublicRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPublicRoutes() {
	s.engine.POST("/api/signup", s.Signup)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.JWTAuthRequired())

	// -------- Reference data --------
	api.GET("/tariffs", s.authorize(authorization.ObjectTariff, authorization.ActionView), s.ListTariffs)
	api.GET("/extra-charges/:tariff_type", s.authorize(authorization.ObjectExtraCharge, authorization.ActionView), s.GetExtraCharges)
	api.GET("/fine-slabs", s.authorize(authorization.ObjectFineSlab, authorization.ActionView), s.ListFineSlabs)
	api.POST("/quote", s.authorize(authorization.ObjectQuote, authorization.ActionView), s.Quote)

	// -------- Bills --------
	api.GET("/bills", s.authorize(authorization.ObjectBill, authorization.ActionView), s.GetBill)
	api.GET("/bills/history", s.authorize(authorization.ObjectBill, authorization.ActionView), s.ListBillHistory)

	// -------- Payments --------
	api.POST("/payments/initiate", s.authorize(authorization.ObjectPayment, authorization.ActionPay), s.InitiatePayment)
	api.POST("/payments/verify", s.authorize(authorization.ObjectPayment, authorization.ActionPay), s.VerifyRateLimit(), s.VerifyPayment)

	// -------- Readings --------
	api.POST("/readings", s.authorize(authorization.ObjectReading, authorization.ActionCreate), s.RecordReading)
	api.GET("/readings/:id", s.authorize(authorization.ObjectReading, authorization.ActionView), s.GetReading)
	api.PUT("/readings/:id", s.authorize(authorization.ObjectReading, authorization.ActionUpdate), s.UpdateReading)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.JWTAuthRequired())

	// -------- Tariffs --------
	admin.GET("/tariffs", s.authorize(authorization.ObjectTariff, authorization.ActionView), s.ListTariffs)
	admin.POST("/tariffs", s.authorize(authorization.ObjectTariff, authorization.ActionCreate), s.CreateTariffSlab)
	admin.PUT("/tariffs/:id", s.authorize(authorization.ObjectTariff, authorization.ActionUpdate), s.UpdateTariffSlab)
	admin.DELETE("/tariffs/:id", s.authorize(authorization.ObjectTariff, authorization.ActionDelete), s.DeleteTariffSlab)

	// -------- Extra charges --------
	admin.GET("/extra-charges", s.authorize(authorization.ObjectExtraCharge, authorization.ActionView), s.ListExtraCharges)
	admin.PUT("/extra-charges", s.authorize(authorization.ObjectExtraCharge, authorization.ActionUpdate), s.UpsertExtraCharges)

	// -------- Fine slabs --------
	admin.GET("/fine-slabs", s.authorize(authorization.ObjectFineSlab, authorization.ActionView), s.ListFineSlabs)
	admin.POST("/fine-slabs", s.authorize(authorization.ObjectFineSlab, authorization.ActionCreate), s.CreateFineSlab)
	admin.PUT("/fine-slabs/:id", s.authorize(authorization.ObjectFineSlab, authorization.ActionUpdate), s.UpdateFineSlab)
	admin.DELETE("/fine-slabs/:id", s.authorize(authorization.ObjectFineSlab, authorization.ActionDelete), s.DeleteFineSlab)

	// -------- Customers --------
	admin.GET("/customers", s.authorize(authorization.ObjectCustomer, authorization.ActionView), s.ListCustomers)
	admin.GET("/customers/:id", s.authorize(authorization.ObjectCustomer, authorization.ActionView), s.GetCustomerByID)
	admin.POST("/customers/:id/approve", s.authorize(authorization.ObjectCustomer, authorization.ActionApprove), s.ApproveCustomer)
	admin.POST("/customers/:id/reject", s.authorize(authorization.ObjectCustomer, authorization.ActionApprove), s.RejectCustomer)

	// -------- Staff --------
	admin.GET("/staff", s.authorize(authorization.ObjectStaff, authorization.ActionView), s.ListStaff)
	admin.POST("/staff", s.authorize(authorization.ObjectStaff, authorization.ActionCreate), s.CreateStaff)
	admin.PATCH("/staff/:id", s.authorize(authorization.ObjectStaff, authorization.ActionUpdate), s.UpdateStaff)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: errorPayload{Type: "not_found", Message: "not found"}})
	})
}
