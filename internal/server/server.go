package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/formanet/formanet/internal/config"
	dispatchdomain "github.com/formanet/formanet/internal/dispatch/domain"
	"github.com/formanet/formanet/internal/maintenance"
	onboardingdomain "github.com/formanet/formanet/internal/onboarding/domain"
	organizationdomain "github.com/formanet/formanet/internal/organization/domain"
	royaltydomain "github.com/formanet/formanet/internal/royalty/domain"
	territorydomain "github.com/formanet/formanet/internal/territory/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	genID           *snowflake.Node
	organizationSvc organizationdomain.Service
	territorySvc    territorydomain.Service
	dispatchSvc     dispatchdomain.Service
	onboardingSvc   onboardingdomain.Service
	royaltySvc      royaltydomain.Service
	decayJob        *maintenance.Job
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	GenID           *snowflake.Node
	OrganizationSvc organizationdomain.Service
	TerritorySvc    territorydomain.Service
	DispatchSvc     dispatchdomain.Service
	OnboardingSvc   onboardingdomain.Service
	RoyaltySvc      royaltydomain.Service
	DecayJob        *maintenance.Job
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		genID:           p.GenID,
		organizationSvc: p.OrganizationSvc,
		territorySvc:    p.TerritorySvc,
		dispatchSvc:     p.DispatchSvc,
		onboardingSvc:   p.OnboardingSvc,
		royaltySvc:      p.RoyaltySvc,
		decayJob:        p.DecayJob,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/organizations", s.CreateOrganization)
	api.GET("/organizations/:id", s.GetOrganization)

	api.POST("/territories", s.CreateTerritory)
	api.GET("/territories", s.ListTerritories)
	api.GET("/territories/conflicts", s.CheckTerritoryConflicts)
	api.DELETE("/territories/:id", s.DeactivateTerritory)

	api.POST("/dispatch", s.DispatchDossier)
	api.POST("/dispatch/run", s.DispatchAllPending)

	api.GET("/royalties", s.GetRoyalties)

	api.POST("/candidates/:id/onboard", s.OnboardCandidate)

	api.POST("/maintenance/decay", s.maintenanceAuth, s.RunDecay)
}

// maintenanceAuth guards the operational endpoints with the static bearer
// token from configuration. An empty configured token disables the endpoints.
func (s *Server) maintenanceAuth(c *gin.Context) {
	token := s.cfg.MaintenanceToken
	if token == "" || c.GetHeader("Authorization") != "Bearer "+token {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.Next()
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
