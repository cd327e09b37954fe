package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_sentiment/internal/adapters/cupid"
	"review_sentiment/internal/adapters/observability"
	redisad "review_sentiment/internal/adapters/redis"
	"review_sentiment/internal/app"
	"review_sentiment/internal/domain"
	"review_sentiment/internal/shared"
	mysqlrepo "review_sentiment/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "ingestor")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	observability.Serve(cfg.MetricsAddr, observability.InitRegistry())

	log.Info().
		Str("base", cfg.CupidBase).
		Int("workers", cfg.Workers).
		Int("reviews", cfg.ReviewCount).
		Int("properties", len(cfg.PropertyIDs)).
		Float64("rating_scale", cfg.RatingScale).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := cupid.New(cfg.CupidBase, cfg.CupidKey, cfg.CupidRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Cupid client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis ping failed; cache invalidation will be skipped")
	}

	ing := app.NewIngestionService(client, repo, cache, cfg.RatingScale)
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		totals = make(map[domain.Sentiment]int, 3)
		failed int
	)

	for _, id := range cfg.PropertyIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("ingestion interrupted")
			break
		}

		wg.Add(1)
		go func(propertyID int64) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := ing.IngestProperty(ctx, propertyID, cfg.ReviewCount)
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				log.Warn().Int64("id", propertyID).Str("err_type", observability.LabelErr(err)).Err(err).Msg("ingest failed")
				return
			}
			if res.Missed {
				log.Info().Int64("id", propertyID).Msg("no reviews upstream")
				return
			}

			mu.Lock()
			for s, n := range res.Counts {
				totals[s] += n
			}
			mu.Unlock()

			log.Info().
				Int64("id", propertyID).
				Int("stored", res.Stored).
				Int("skipped", res.Skipped).
				Int("positive", res.Counts[domain.Positive]).
				Int("neutral", res.Counts[domain.Neutral]).
				Int("negative", res.Counts[domain.Negative]).
				Msg("ingest ok")
		}(id)
	}

	wg.Wait()
	log.Info().
		Int("positive", totals[domain.Positive]).
		Int("neutral", totals[domain.Neutral]).
		Int("negative", totals[domain.Negative]).
		Int("failed", failed).
		Msg("ingestion completed")
}
