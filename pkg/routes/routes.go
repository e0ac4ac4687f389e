package pkg

import (
	"context"
	"errors"
	"net/http"

	"ExamSeatPlanner/internal/config"
	"ExamSeatPlanner/internal/placement"
	"ExamSeatPlanner/internal/seating"
	"ExamSeatPlanner/pkg/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var EchoModules = fx.Module("echo",
	fx.Provide(config.NewServerConfig),
	fx.Provide(config.NewLogger),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewEngineConfig),
	fx.Provide(placement.NewPlanner),
	fx.Provide(fx.Annotate(seating.NewSeatingRepository, fx.As(new(seating.Store)))),
	fx.Provide(seating.NewSeatingService),
	fx.Provide(seating.NewSeatingHandler),
	fx.Provide(middleware.InitCasbinEnforcer),
	fx.Provide(NewEchoServer),
	fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: logger.Named("fx")}
	}),
	fx.Invoke(RegisterRoutes))

func NewEchoServer(lc fx.Lifecycle, cfg *config.ServerConfig, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("server starting", zap.String("addr", cfg.Addr))
			go func() {
				if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("failed to start the server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down the server")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func RegisterRoutes(e *echo.Echo, h *seating.SeatingHandler, enf *casbin.Enforcer, logger *zap.Logger) {
	e.GET("/healthz", h.Healthz)

	protected := e.Group("/api")
	protected.Use(middleware.JWTMiddleware(logger))
	protected.Use(middleware.CasbinMiddleware(enf, logger))

	protected.GET("/rooms", h.ListRooms)
	protected.POST("/rooms", h.CreateRoom)
	protected.PUT("/rooms/:id", h.UpdateRoom)
	protected.DELETE("/rooms/:id", h.DeleteRoom)

	protected.GET("/students", h.ListStudents)
	protected.POST("/students", h.CreateStudents)

	protected.GET("/plans", h.ListPlans)
	protected.POST("/plans", h.GeneratePlan)
	protected.GET("/plans/:id", h.GetPlan)
	protected.DELETE("/plans/:id", h.DeletePlan)
	protected.GET("/plans/:id/report", h.GetReport)
	protected.POST("/plans/:id/pins", h.PinStudent)
	protected.DELETE("/plans/:id/pins/:studentId", h.UnpinStudent)
}
