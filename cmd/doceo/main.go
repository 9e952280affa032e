package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/app"
	"github.com/ternarybob/doceo/internal/common"
	"github.com/ternarybob/doceo/internal/models"
	"github.com/ternarybob/doceo/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	serverPort   = flag.Int("port", 0, "Server port (overrides config)")
	serverPortP  = flag.Int("p", 0, "Server port (shorthand, overrides config)")
	serverHost   = flag.String("host", "", "Server host (overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
	genCourse    = flag.String("course", "", "Run one generation for this course ID and exit (requires -employee)")
	genEmployee  = flag.String("employee", "", "Employee ID for one-shot generation")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Doceo version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Merge port flags (shorthand takes precedence)
	finalPort := *serverPort
	if *serverPortP != 0 {
		finalPort = *serverPortP
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("doceo.toml"); err == nil {
			configFiles = append(configFiles, "doceo.toml")
		} else if _, err := os.Stat("deployments/local/doceo.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/doceo.toml")
		}
	}

	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	common.ApplyFlagOverrides(config, finalPort, *serverHost)

	logger = common.InitLogger(config)

	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Int("port", config.Server.Port).
		Str("host", config.Server.Host).
		Str("log_level", config.Logging.Level).
		Msg("Application configuration loaded")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}

	// One-shot generation mode: submit, process inline, exit
	if *genCourse != "" || *genEmployee != "" {
		exitCode := runOnce(application, *genCourse, *genEmployee)
		closeApp(application)
		os.Exit(exitCode)
	}

	srv := server.New(application)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Fatal().Str("panic", fmt.Sprintf("%v", r)).Msg("Server goroutine panicked")
			}
		}()

		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Give goroutine a moment to start
	time.Sleep(100 * time.Millisecond)

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Msg("Server ready - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info().Msg("Interrupt signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}

	closeApp(application)
	logger.Info().Msg("Server stopped")
}

// runOnce submits a generation job for the pair and processes it inline
func runOnce(application *app.App, courseID, employeeID string) int {
	if courseID == "" || employeeID == "" {
		logger.Error().Msg("One-shot generation requires both -course and -employee")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	result, err := application.Gateway.Submit(ctx, courseID, employeeID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to submit generation job")
		return 1
	}

	// Submit kicks the processor on a detached goroutine; wait for the job
	// row to reach a terminal state before exiting.
	jobStore := application.StorageManager.JobStorage()
	for {
		select {
		case <-ctx.Done():
			logger.Error().Str("job_id", result.Job.ID).Msg("Timed out waiting for generation")
			return 1
		case <-time.After(time.Second):
		}

		job, err := jobStore.GetJob(ctx, result.Job.ID)
		if err != nil {
			logger.Error().Err(err).Str("job_id", result.Job.ID).Msg("Failed to read job status")
			return 1
		}
		if !job.IsTerminal() {
			continue
		}

		if job.Status != models.JobStatusCompleted {
			logger.Error().
				Str("job_id", job.ID).
				Str("status", string(job.Status)).
				Str("error", job.Error).
				Msg("Generation failed")
			return 1
		}

		logger.Info().
			Str("job_id", job.ID).
			Str("course_id", courseID).
			Str("employee_id", employeeID).
			Msg("Generation complete")
		return 0
	}
}

func closeApp(application *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := application.Close(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to close application")
	}
}
