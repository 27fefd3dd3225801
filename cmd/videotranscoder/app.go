package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/nguyentantai21042004/videotranscoder/internal/config"
	"github.com/nguyentantai21042004/videotranscoder/internal/converter"
	"github.com/nguyentantai21042004/videotranscoder/internal/dispatcher"
	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
	"github.com/nguyentantai21042004/videotranscoder/internal/probe"
	"github.com/nguyentantai21042004/videotranscoder/internal/processor"
	"github.com/nguyentantai21042004/videotranscoder/internal/status"
	"github.com/nguyentantai21042004/videotranscoder/internal/transcriber"
	"github.com/nguyentantai21042004/videotranscoder/internal/watcher"
	"github.com/nguyentantai21042004/videotranscoder/pkg/executor"
)

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		cfg := config.Default()
		cfg.ApplyEnv()
		return cfg, cfg.Validate()
	}
	return config.Load(configPath)
}

// buildProcessor constructs every capability once; the processor shares them across runs.
func buildProcessor(cfg *config.Config, log logger.Logger) (processor.Processor, error) {
	exec := executor.New()

	backend, err := transcriber.NewBackend(cfg, exec, log)
	if err != nil {
		return nil, fmt.Errorf("init transcriber: %w", err)
	}

	pr := probe.New(cfg.FFmpeg.ProbePath, exec, log)
	conv := converter.New(converter.Options{
		BinaryPath:   cfg.FFmpeg.BinaryPath,
		VideoCodec:   cfg.FFmpeg.VideoCodec,
		AudioCodec:   cfg.FFmpeg.AudioCodec,
		AudioBitrate: cfg.FFmpeg.AudioBitrate,
		Preset:       cfg.FFmpeg.Preset,
		CRF:          cfg.FFmpeg.CRF,
	}, exec, log)

	return processor.New(processor.Options{
		ConvertedExt: cfg.FFmpeg.OutputExt,
		SettleDelay:  cfg.Watch.SettleDelay,
	}, pr, conv, transcriber.New(backend, log), log), nil
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.NewWithOptions(logger.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Video Transcoder")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Transcription: %s", cfg.Transcription.Provider)

	proc, err := buildProcessor(cfg, log)
	if err != nil {
		return err
	}

	pool := dispatcher.New(func(ctx context.Context, path string) {
		proc.Process(ctx, path)
	}, cfg.Performance.MaxConcurrent, log)

	w, err := watcher.New(cfg.Watch.Path, cfg.Watch.Extension, pool.Submit, log)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errChan := make(chan error, 2)
	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("watcher: %w", err)
		}
	}()
	go func() {
		if err := status.New(cfg.Server.Addr, w, log).Run(ctx); err != nil {
			errChan <- fmt.Errorf("status server: %w", err)
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Video Transcoder is ready!")
	log.Info(ctx, "Monitoring: %s (%s)", cfg.Watch.Path, cfg.Watch.Extension)
	log.Info(ctx, "Status: http://%s/status", cfg.Server.Addr)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	var runErr error
	select {
	case <-ctx.Done():
		log.Info(context.Background(), "Shutdown signal received")
	case runErr = <-errChan:
		log.Error(context.Background(), "%v", runErr)
	}

	// Graceful shutdown
	log.Info(context.Background(), "Shutting down gracefully, waiting for in-flight files...")
	cancel()
	pool.Close()
	log.Info(context.Background(), "Video Transcoder stopped")
	return runErr
}

func processOne(ctx context.Context, path string) (processor.Outcome, error) {
	cfg, err := loadConfig()
	if err != nil {
		return processor.Outcome{}, fmt.Errorf("load config: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return processor.Outcome{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	log := newLogger(cfg)
	proc, err := buildProcessor(cfg, log)
	if err != nil {
		return processor.Outcome{}, err
	}

	if _, err := os.Stat(abs); err != nil {
		log.Warn(ctx, "Source %s is not accessible: %v", abs, err)
	}
	return proc.Process(ctx, abs), nil
}
