package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/metasearch-backend/internal/conf"
	"github.com/lk2023060901/metasearch-backend/internal/pkg/logger"
	"github.com/lk2023060901/metasearch-backend/internal/pkg/workerpool"
	"github.com/lk2023060901/metasearch-backend/internal/search/biz"
	"github.com/lk2023060901/metasearch-backend/internal/search/data"
	"github.com/lk2023060901/metasearch-backend/internal/search/engine"
	"github.com/lk2023060901/metasearch-backend/internal/search/fetch"
	"github.com/lk2023060901/metasearch-backend/internal/search/service"
	"github.com/lk2023060901/metasearch-backend/internal/server"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger with config
	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	// Register backend engines
	registry := engine.NewRegistry()
	registry.MustRegister(
		engine.NewDuckDuckGo(),
		engine.NewOpenverse(),
		engine.NewBingNews(),
		engine.NewYouTube(),
		engine.NewOpenLibrary(),
	)

	// Initialize dispatch infrastructure
	fetcher := fetch.NewHTTPFetcher(config.Search.FetchTimeout, config.Search.MaxRetries)

	pool, err := workerpool.New(config.Search.MaxConcurrency, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize worker pool", zap.Error(err))
	}
	defer pool.Shutdown()

	searchUseCase := biz.NewSearchUseCase(registry, fetcher, pool, config.Search.FetchTimeout, log.Logger)

	// Optional result cache
	var cache *data.SearchCache
	if config.Cache.Enabled {
		cache, err = data.NewSearchCache(&config.Cache, log.Logger)
		if err != nil {
			log.Fatal("failed to initialize search cache", zap.Error(err))
		}
		defer cache.Close()
	}

	searchService := service.NewSearchService(searchUseCase, cache, log.Logger)

	// Start HTTP server
	httpServer := server.NewHTTPServer(config, log.Logger, searchService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
