// Copyright 2025 DBAssist
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	"dbassist/platform/gateway/audit"
	"dbassist/platform/gateway/consumption"
	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/topic"
	"dbassist/platform/llm"
	"dbassist/platform/shared/logger"
)

// Run loads configuration, wires the event sinks, consumption store,
// and LLM provider, and serves HTTP until the process is interrupted.
// It is the whole lifecycle of the service; main only calls it.
func Run() error {
	cfg, err := LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	log := logger.New("gateway")

	var sinks events.MultiSink
	var auditQueue *audit.Queue
	if cfg.Audit.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.Audit.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open audit database: %w", err)
		}
		auditQueue, err = audit.NewQueue(db, cfg.Audit.QueueSize, cfg.Audit.Workers, cfg.Audit.FallbackPath, log)
		if err != nil {
			return fmt.Errorf("failed to start audit queue: %w", err)
		}
		sinks = append(sinks, auditQueue)
	}
	sinks = append(sinks, events.NewLogSink(log))

	opts := []Option{
		WithEventSink(sinks),
		WithSystemPrompt(cfg.SystemPrompt),
		WithVectorScreening(cfg.VectorScreening),
		WithTopicOptions(topic.WithDefaultAllow(cfg.TopicDefaultAllow)),
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			// Rate limits degrade to per-instance rather than taking the
			// service down.
			log.Warn("", "", fmt.Sprintf("Redis unavailable, falling back to in-memory consumption store: %v", err), nil)
		} else {
			opts = append(opts, WithConsumptionStore(consumption.NewRedisStoreFromClient(client)))
		}
	}

	if cfg.LLM.Provider != "" {
		provider, err := llm.New(cfg.LLM)
		if err != nil {
			return fmt.Errorf("failed to configure LLM provider: %w", err)
		}
		opts = append(opts, WithProvider(provider))
	}

	gw, err := New(log, opts...)
	if err != nil {
		return fmt.Errorf("failed to build gateway: %w", err)
	}
	if cfg.DefaultTier != "" {
		tier, err := consumption.ParseTier(cfg.DefaultTier)
		if err != nil {
			return err
		}
		gw.AdjustLimits(tier)
	}

	server := NewServer(gw, cfg, log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("", "", fmt.Sprintf("Received %s, shutting down", sig), nil)
	}

	if auditQueue != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := auditQueue.Shutdown(ctx); err != nil {
			log.Error("", "", fmt.Sprintf("Audit queue shutdown: %v", err), nil)
		}
	}
	return nil
}
