// Package server exposes the analytics API over HTTP.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Skufu/medplat/internal/auth"
	"github.com/Skufu/medplat/internal/dataset"
	_ "github.com/Skufu/medplat/internal/docs"
	"github.com/Skufu/medplat/internal/forecast"
	"github.com/Skufu/medplat/internal/store"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Store is the persistence the handlers need.
type Store interface {
	HealthChecker
	auth.UserLookup

	InsertRows(ctx context.Context, batchID string, rows []dataset.Row) (int, error)
	ListRows(ctx context.Context, limit int) ([]dataset.Row, error)
	DeleteRows(ctx context.Context) (int64, error)

	CreateUser(ctx context.Context, u store.User) error
	ListUsers(ctx context.Context) ([]store.User, error)
	UpdatePassword(ctx context.Context, username, hash string) error
	SetRole(ctx context.Context, username, role string) error

	ListDashboards(ctx context.Context, owner string) ([]store.Dashboard, error)
	GetDashboard(ctx context.Context, owner, id string) (*store.Dashboard, error)
	SaveDashboard(ctx context.Context, d *store.Dashboard) error
	DeleteDashboard(ctx context.Context, owner, id string) error
}

type Forecaster interface {
	Forecast(ctx context.Context, rows []dataset.Row, req forecast.Request) (*forecast.Result, error)
}

type Options struct {
	SampleSize     int
	DataLimit      int
	MaxUploadBytes int64
	AllowOrigins   []string
	StaticDir      string
	Logger         *slog.Logger
}

type API struct {
	store      Store
	forecaster Forecaster
	opts       Options
	logger     *slog.Logger
}

func NewAPI(st Store, forecaster Forecaster, opts Options) *API {
	if opts.SampleSize <= 0 {
		opts.SampleSize = 100
	}
	if opts.DataLimit <= 0 {
		opts.DataLimit = 1000
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if len(opts.AllowOrigins) == 0 {
		opts.AllowOrigins = []string{"*"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &API{store: st, forecaster: forecaster, opts: opts, logger: logger}
}

// NewRouter wires middleware and every route.
func NewRouter(api *API) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(api.opts.MaxUploadBytes),
		cors.New(cors.Config{
			AllowOrigins: api.opts.AllowOrigins,
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	if root := detectStaticRoot(api.opts.StaticDir); root != "" {
		router.Static("/static", filepath.Join(root, "static"))
		router.StaticFile("/", filepath.Join(root, "index.html"))
	} else {
		router.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, "Welcome to the MedPlat API")
		})
	}

	router.GET("/healthz", health)
	router.GET("/api/health", health)
	router.GET("/readyz", api.ready)
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	router.POST("/register", api.register)
	router.POST("/token", api.login)

	router.GET("/api/data", api.listData)
	router.GET("/api/data/fields", api.fields)
	router.GET("/api/data/summary", api.summary)
	router.GET("/api/chart", api.chart)

	router.POST("/api/ai/nlp", api.query)
	router.POST("/api/query", api.query)
	router.POST("/anomaly", api.anomaly)
	router.POST("/api/anomaly", api.anomaly)
	router.POST("/forecast", api.forecast)
	router.POST("/api/forecast", api.forecast)

	authed := router.Group("/api", auth.Middleware(api.store))
	authed.GET("/me", api.me)
	authed.POST("/change-password", api.changePassword)

	authed.GET("/dashboards", api.listDashboards)
	authed.GET("/dashboards/:id", api.getDashboard)
	authed.POST("/dashboards", api.saveDashboard)
	authed.DELETE("/dashboards/:id", api.deleteDashboard)

	admin := authed.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/upload", api.upload)
	admin.DELETE("/data", api.deleteData)
	admin.GET("/users", api.listUsers)
	admin.POST("/users/set-role", api.setRole)

	return router
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := a.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"db":     fmt.Sprintf("unhealthy: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"db":     "ok",
	})
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// detectStaticRoot returns a directory holding a built frontend, or "".
// Without an explicit dir it looks for frontend/build next to the working
// directory and up to two levels above it.
func detectStaticRoot(dir string) string {
	if dir != "" {
		if fileExists(filepath.Join(dir, "index.html")) {
			return dir
		}
		return ""
	}

	startDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	candidates := []string{
		startDir,
		filepath.Dir(startDir),
		filepath.Dir(filepath.Dir(startDir)),
	}
	for _, d := range candidates {
		build := filepath.Join(d, "frontend", "build")
		if fileExists(filepath.Join(build, "index.html")) {
			return build
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// loadRows reads the full collection and infers fields from its sample.
func (a *API) loadRows(ctx context.Context) ([]dataset.Row, dataset.FieldSet, error) {
	rows, err := a.store.ListRows(ctx, 0)
	if err != nil {
		return nil, dataset.FieldSet{}, err
	}
	return rows, dataset.Infer(dataset.Sample(rows, a.opts.SampleSize)), nil
}
