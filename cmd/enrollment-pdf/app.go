package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-enrollment-pdf/internal/compose"
	"github.com/a3tai/mcp-enrollment-pdf/internal/config"
	"github.com/a3tai/mcp-enrollment-pdf/internal/enrollment"
	"github.com/a3tai/mcp-enrollment-pdf/internal/extract"
	"github.com/a3tai/mcp-enrollment-pdf/internal/insurer"
	"github.com/a3tai/mcp-enrollment-pdf/internal/output"
	"github.com/a3tai/mcp-enrollment-pdf/internal/templates"
)

// app holds the wired components and the connections to release on exit.
type app struct {
	service *enrollment.Service
	source  templates.Source
	redis   *redis.Client
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	source, err := a.templateSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.source = source

	sink, err := output.NewDirSink(cfg.OutputDirectory, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []enrollment.Option{enrollment.WithSink(sink)}
	if cfg.ExtractURL != "" {
		opts = append(opts, enrollment.WithExtractor(extract.NewClient(cfg.ExtractURL, logger)))
	}

	composer := compose.New(source, logger)
	service, err := enrollment.NewService(insurer.Default(), source, composer, logger, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.service = service
	return a, nil
}

// templateSource picks the HTTP asset server over the local directory and
// puts the Redis cache in front when one is configured and reachable.
func (a *app) templateSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (templates.Source, error) {
	var source templates.Source
	if cfg.TemplatesURL != "" {
		source = templates.NewHTTPSource(cfg.TemplatesURL, cfg.MaxFileSize, logger)
		logger.Info("Serving templates from HTTP", zap.String("url", cfg.TemplatesURL))
	} else {
		dir, err := templates.NewDirSource(cfg.TemplateDirectory, cfg.MaxFileSize)
		if err != nil {
			return nil, fmt.Errorf("failed to open template directory: %w", err)
		}
		source = dir
		logger.Info("Serving templates from directory", zap.String("dir", dir.Dir()))
	}

	if !cfg.CacheEnabled() {
		return source, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Template cache unavailable, continuing without it",
			zap.String("redis", cfg.RedisAddr),
			zap.Error(err),
		)
		_ = client.Close()
		return source, nil
	}

	a.redis = client
	logger.Info("Template cache enabled", zap.String("redis", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	return templates.NewCachedSource(source, client, cfg.CacheTTL, logger), nil
}

// Close releases the Redis connection.
func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
