package app

import (
	"context"
	"fmt"
	"time"

	"Tasker/internal/config"
	"Tasker/internal/repo"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type App struct {
	cfg    config.Config
	logger *log.Logger
	tasks  *repo.MemTaskRepo
	router *gin.Engine
}

func New(cfg config.Config, logger *log.Logger) (*App, error) {
	loc, err := cfg.Tasks.Location()
	if err != nil {
		return nil, fmt.Errorf("tasks location: %w", err)
	}
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	a := &App{cfg: cfg, logger: logger, tasks: repo.NewMemTaskRepo()}
	a.router = newRouter(cfg, logger, a.tasks, loc)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Close drops the in-memory tasks. They are not persisted anywhere.
func (a *App) Close(ctx context.Context) error {
	list, err := a.tasks.List(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("shutting down", "tasks_dropped", len(list))
	return nil
}

func newRouter(cfg config.Config, logger *log.Logger, tasks repo.TaskRepo, loc *time.Location) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	origins := cfg.HTTP.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Type", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, logger, tasks, loc)
	return r
}

// requestLogger tags every request with an id and logs it once it is served.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		logger.Info("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
