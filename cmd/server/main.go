package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"leilao/internal/api"
	"leilao/internal/config"
	"leilao/internal/model"
	"leilao/internal/storage"
)

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("failed to parse config")
		return
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	if err := model.SeedDefaultAdmin(context.Background(), repo, cfg); err != nil {
		logrus.WithError(err).Warn("failed to seed default admin")
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	// Public surface: browsing and bidding need no account.
	apiGroup.POST("/login", httpHandler.Login)
	apiGroup.GET("/campanhas", httpHandler.ListCampaigns)
	apiGroup.GET("/campanhas/:id", httpHandler.GetCampaign)
	apiGroup.GET("/categorias", httpHandler.ListCategories)
	apiGroup.GET("/categorias/:id", httpHandler.GetCategory)
	apiGroup.GET("/itens", httpHandler.ListItems)
	apiGroup.GET("/itens/:id", httpHandler.GetItem)
	apiGroup.POST("/lances", httpHandler.CreateBid)
	apiGroup.GET("/configuracoes", httpHandler.GetSettings)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.AuthMiddleware())
	protected.GET("/me", httpHandler.Me)
	protected.GET("/lances", httpHandler.ListBids)
	protected.GET("/lances/ultimos", httpHandler.LatestBids)
	protected.GET("/lances/exportar", httpHandler.ExportBidsCSV)
	protected.GET("/dashboard", httpHandler.Dashboard)

	manager := protected.Group("")
	manager.Use(httpHandler.RequireManager())
	manager.POST("/campanhas", httpHandler.CreateCampaign)
	manager.PUT("/campanhas/:id", httpHandler.UpdateCampaign)
	manager.DELETE("/campanhas/:id", httpHandler.DeleteCampaign)
	manager.POST("/categorias", httpHandler.CreateCategory)
	manager.PUT("/categorias/:id", httpHandler.UpdateCategory)
	manager.DELETE("/categorias/:id", httpHandler.DeleteCategory)
	manager.POST("/itens", httpHandler.CreateItem)
	manager.PUT("/itens/:id", httpHandler.UpdateItem)
	manager.DELETE("/itens/:id", httpHandler.DeleteItem)
	manager.POST("/uploads", httpHandler.UploadBanner)

	admin := protected.Group("")
	admin.Use(httpHandler.RequireAdmin())
	admin.GET("/usuarios", httpHandler.ListUsers)
	admin.GET("/usuarios/:id", httpHandler.GetUser)
	admin.POST("/usuarios", httpHandler.CreateUser)
	admin.PUT("/usuarios/:id", httpHandler.UpdateUser)
	admin.DELETE("/usuarios/:id", httpHandler.DeleteUser)
	admin.POST("/configuracoes", httpHandler.UpdateSettings)
	admin.GET("/auditoria", httpHandler.ListAudit)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logrus.WithField("host", serverHost).Info("server starting")
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Error("server failed")
	}
}

// CORSMiddleware allows the public site and the admin panel to call the API
// from other origins.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware logs one line per request, tagged with a request id that
// is also returned in the X-Request-ID header.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   duration.String(),
			"size":       c.Writer.Size(),
			"client_ip":  c.ClientIP(),
		}).Info("http_request")
	}
}
