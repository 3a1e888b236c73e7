package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Ambush3/SkateSpotApp/config"
	"github.com/Ambush3/SkateSpotApp/db"
	"github.com/Ambush3/SkateSpotApp/handlers"
	"github.com/Ambush3/SkateSpotApp/locations"
	"github.com/Ambush3/SkateSpotApp/logging"
	"github.com/Ambush3/SkateSpotApp/models"
	"github.com/Ambush3/SkateSpotApp/processing"
	"github.com/Ambush3/SkateSpotApp/utils"
	"github.com/Ambush3/SkateSpotApp/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

func main() {
	logging.Setup(config.LOG_LEVEL, config.DEBUG_MODE)
	db.Init()
	if err := models.Init(); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if config.GEOCODE_SPOTS {
		go processing.StartProcessing(ctx, locations.NewNominatim())
	}

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        30 * 24 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/spot/feed", "/metrics"})))
	}
	router.Use(utils.CacheHeaders(utils.CacheNoCache)) // No cache by default, individual end-points can override that
	router.Use(utils.MetricsMiddleware)
	handlers.Register(router)
	web.Register(router)

	slog.Info("Starting server", "address", config.BIND_ADDRESS, "tls", config.TLS_DOMAINS != "")
	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	slog.Error("Server stopped", "error", err)
	os.Exit(1)
}
