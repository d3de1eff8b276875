package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"sukebei/api"
	"sukebei/config"
	"sukebei/handlers"
	"sukebei/services/source"
	"sukebei/services/sukebei"
)

func main() {
	_ = godotenv.Load(".env")

	configFlag := flag.String("config", "", "path to settings.json (default $SUKEBEI_CONFIG or cache/settings.json)")
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🚀 sukebei search backend starting...")

	// Init config manager and load settings (creates defaults if missing)
	cfgManager := config.NewManager(resolveConfigPath(*configFlag))
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("invalid settings in %s: %v", cfgManager.Path(), err)
	}

	setupLogging(settings.Log)

	// Apply port override if specified
	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	registry := source.NewRegistry(sukebei.BuildSources(settings)...)
	log.Printf("[main] loaded %d source(s): %v", len(registry.Names()), registry.Names())

	settingsHandler := handlers.NewSettingsHandler(cfgManager)
	settingsHandler.OnReload = func(s config.Settings) {
		registry.Replace(sukebei.BuildSources(s))
	}
	sourceHandler := handlers.NewSourceHandler(registry)

	r := api.NewRouter(settingsHandler, sourceHandler)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}

// resolveConfigPath picks the flag, then SUKEBEI_CONFIG, then the default.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("SUKEBEI_CONFIG"); env != "" {
		return env
	}
	return filepath.Join("cache", "settings.json")
}

// setupLogging tees the standard logger into a rotated file when configured.
func setupLogging(cfg config.LogConfig) {
	if cfg.File == "" {
		return
	}
	// Ensure log directory exists
	logDir := filepath.Dir(cfg.File)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		return
	}
	fileWriter := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	// Redirect standard log to both console and file
	log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Logging to file: %s", cfg.File)
}
