package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/samadjamali123/FloraGuard/src/configs"
	"github.com/samadjamali123/FloraGuard/src/core/explain"
	"github.com/samadjamali123/FloraGuard/src/core/providers/detector"
	"github.com/samadjamali123/FloraGuard/src/core/providers/llm"
	"github.com/samadjamali123/FloraGuard/src/core/providers/vlllm"
	"github.com/samadjamali123/FloraGuard/src/core/utils"
	"github.com/samadjamali123/FloraGuard/src/dashboard"
	"github.com/samadjamali123/FloraGuard/src/detection"

	// Register all providers so their init functions run.
	_ "github.com/samadjamali123/FloraGuard/src/core/providers/llm/ollama"
	_ "github.com/samadjamali123/FloraGuard/src/core/providers/llm/openai"
	_ "github.com/samadjamali123/FloraGuard/src/core/providers/vlllm/ollama"
	_ "github.com/samadjamali123/FloraGuard/src/core/providers/vlllm/openai"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func LoadConfigAndLogger() (*configs.Config, *utils.Logger, error) {
	// .env must be read before the config so credential fill-in sees it.
	envErr := godotenv.Load()

	config, configPath, err := configs.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := utils.NewLogger(config)
	if err != nil {
		return nil, nil, err
	}
	logger.Info(fmt.Sprintf("logging initialized, config file: %s", configPath))
	if envErr != nil {
		logger.Warn("no .env file found, using system environment variables")
	}

	return config, logger, nil
}

// buildVisionProvider creates the direct-analysis vision model. Failure is
// not fatal: the remote detection path still works, only the direct mode is
// disabled.
func buildVisionProvider(config *configs.Config, logger *utils.Logger) *vlllm.Provider {
	name, vlllmConfig, err := config.SelectedVLLM()
	if err != nil {
		logger.Warn(fmt.Sprintf("no vision model selected, direct analysis disabled: %v", err))
		return nil
	}

	provider, err := vlllm.Create(name, vlllmConfig, logger)
	if err != nil {
		logger.Warn(fmt.Sprintf("vision model %s unavailable, direct analysis disabled: %v", name, err))
		return nil
	}

	logger.Info(fmt.Sprintf("vision model ready: %s (%s)", name, vlllmConfig.ModelName))
	return provider
}

// buildTextGenerator creates the text model backing generative explanations.
// Absence only disables that fallback; the knowledge base and the template
// still work.
func buildTextGenerator(config *configs.Config, logger *utils.Logger) explain.TextGenerator {
	name, llmConfig := config.SelectedLLM()
	if llmConfig == nil {
		logger.Info("no text model selected, generative explanations disabled")
		return nil
	}

	provider, err := llm.Create(llmConfig.Type, &llm.Config{
		Type:        llmConfig.Type,
		ModelName:   llmConfig.ModelName,
		BaseURL:     llmConfig.BaseURL,
		APIKey:      llmConfig.APIKey,
		Temperature: llmConfig.Temperature,
		MaxTokens:   llmConfig.MaxTokens,
		TopP:        llmConfig.TopP,
	})
	if err != nil {
		logger.Warn(fmt.Sprintf("text model %s unavailable, generative explanations disabled: %v", name, err))
		return nil
	}

	logger.Info(fmt.Sprintf("text model ready: %s (%s)", name, llmConfig.ModelName))
	return provider
}

func StartHttpServer(config *configs.Config, logger *utils.Logger, g *errgroup.Group, groupCtx context.Context) (*http.Server, error) {
	if config.Log.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.SetTrustedProxies([]string{"0.0.0.0"})

	detectors := detector.NewCache(&config.Detector, logger)

	// API routes live under the /api prefix.
	apiGroup := router.Group("/api")
	detectionService := detection.NewDefaultDetectionService(config, logger, detectors)
	if err := detectionService.Start(groupCtx, router, apiGroup); err != nil {
		logger.Error(fmt.Sprintf("failed to start detection service: %v", err))
		return nil, err
	}

	if config.Web.Enabled {
		vision := buildVisionProvider(config, logger)
		enricher := explain.NewEnricher(buildTextGenerator(config, logger), logger)
		dashboardService := dashboard.NewDefaultDashboardService(config, logger, detectors, vision, enricher)
		if err := dashboardService.Start(groupCtx, router, apiGroup); err != nil {
			logger.Error(fmt.Sprintf("failed to start dashboard service: %v", err))
			return nil, err
		}
	}

	httpServer := &http.Server{
		Addr:    config.Server.IP + ":" + strconv.Itoa(config.Server.Port),
		Handler: router,
	}

	g.Go(func() error {
		logger.Info(fmt.Sprintf("HTTP server listening on http://%s", httpServer.Addr))

		// Watch for the shutdown signal in its own goroutine.
		go func() {
			<-groupCtx.Done()
			logger.Info("shutdown signal received, stopping HTTP server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error(fmt.Sprintf("HTTP server shutdown failed: %v", err))
			} else {
				logger.Info("HTTP server stopped gracefully")
			}
		}()

		// ErrServerClosed means a clean shutdown.
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(fmt.Sprintf("HTTP server failed: %v", err))
			return err
		}
		return nil
	})

	return httpServer, nil
}

func GracefulShutdown(cancel context.CancelFunc, logger *utils.Logger, g *errgroup.Group) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	sig := <-sigChan
	logger.Info(fmt.Sprintf("received signal %v, shutting down", sig))

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error(fmt.Sprintf("error during shutdown: %v", err))
			os.Exit(1)
		}
		logger.Info("all services stopped gracefully")
	case <-time.After(15 * time.Second):
		logger.Error("shutdown timed out, forcing exit")
		os.Exit(1)
	}
}

func main() {
	config, logger, err := LoadConfigAndLogger()
	if err != nil {
		fmt.Println("failed to load config or initialize logging:", err)
		os.Exit(1)
	}
	defer logger.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, groupCtx := errgroup.WithContext(ctx)

	if _, err := StartHttpServer(config, logger, g, groupCtx); err != nil {
		logger.Error(fmt.Sprintf("failed to start services: %v", err))
		cancel()
		os.Exit(1)
	}

	GracefulShutdown(cancel, logger, g)

	logger.Info("exited cleanly")
}
