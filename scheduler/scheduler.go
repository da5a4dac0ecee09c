// Package scheduler runs the daily causelist sweep: every active
// watched advocate is scraped for today's list, snapshotted, cached and
// fanned out to the notifier.
package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/advocatehq/causelist-http-service/causelist"
	"github.com/advocatehq/causelist-http-service/common/config"
	"github.com/advocatehq/causelist-http-service/common/db"
	"github.com/advocatehq/causelist-http-service/common/storage"
	"github.com/advocatehq/causelist-http-service/common/work"
	"github.com/advocatehq/causelist-http-service/notifier"
	"github.com/advocatehq/causelist-http-service/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Outcome summarizes one advocate's scheduled scrape.
type Outcome struct {
	AdvocateCode string
	SnapshotID   string
	CaseCount    int
	Skipped      bool
}

// Scheduler owns the cron entry and the per-run worker pool.
type Scheduler struct {
	cfg        config.Config
	db         *db.DB
	scraper    *causelist.Scraper
	storage    storage.StorageService
	dispatcher *notifier.Dispatcher
	cron       *cron.Cron
}

// New creates a scheduler. The storage service may be nil, in which
// case raw page archival is skipped.
func New(cfg config.Config, database *db.DB, scraper *causelist.Scraper, store storage.StorageService, dispatcher *notifier.Dispatcher) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		db:         database,
		scraper:    scraper,
		storage:    store,
		dispatcher: dispatcher,
		cron:       cron.New(),
	}
}

// Start registers the daily sweep and starts the cron loop.
func (s *Scheduler) Start() error {
	if !s.cfg.Scheduler.Enabled {
		log.Info().Msg("Scheduler disabled, daily causelist sweep will not run")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Scheduler.CronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if err := s.RunDaily(ctx); err != nil {
			log.Error().Err(err).Msg("Daily causelist sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("registering daily sweep: %w", err)
	}

	s.cron.Start()
	log.Info().Str("cronSpec", s.cfg.Scheduler.CronSpec).Msg("Scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunDaily scrapes today's causelist for every active watched advocate.
// A redis lock keyed by list date keeps multiple instances from
// sweeping the same day twice.
func (s *Scheduler) RunDaily(ctx context.Context) error {
	listDate := time.Now().Format(causelist.DateLayout)

	if s.db.Redis != nil {
		acquired, err := s.db.Redis.SetNX(ctx, "causelist:daily-run:"+listDate, "1", 12*time.Hour)
		if err != nil {
			log.Warn().Err(err).Msg("Run lock unavailable, proceeding without it")
		} else if !acquired {
			log.Info().Str("listDate", listDate).Msg("Daily sweep already ran for this date, skipping")
			return nil
		}
	}

	advocates, err := s.db.Queries.GetActiveWatchedAdvocates(ctx)
	if err != nil {
		return fmt.Errorf("loading watched advocates: %w", err)
	}
	if len(advocates) == 0 {
		log.Info().Msg("No watched advocates, nothing to sweep")
		return nil
	}

	log.Info().
		Str("listDate", listDate).
		Strs("advocates", lo.Map(advocates, func(a repository.WatchedAdvocate, _ int) string { return a.AdvocateCode })).
		Msg("Starting daily causelist sweep")

	pool, err := work.NewWorkerPoolWithConfig[Outcome](work.PoolConfig{
		NumWorkers:      s.cfg.Scheduler.MaxWorkers,
		TaskChannelSize: len(advocates),
		ResultChanSize:  len(advocates) + 1,
		TaskTimeout:     3 * time.Minute,
	})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}

	pool.Start(ctx, "daily-causelist")

	collected := make(chan struct{})
	var succeeded, skipped, failed int
	go func() {
		defer close(collected)
		for result := range pool.Results() {
			switch {
			case result.Error != nil:
				failed++
			case result.Result.Skipped:
				skipped++
			default:
				succeeded++
			}
		}
	}()

	for _, advocate := range advocates {
		advocate := advocate
		task := work.MustNewTask(func(ctx context.Context) (Outcome, error) {
			return s.scrapeAndStore(ctx, advocate, listDate)
		}, work.WithID[Outcome](advocate.AdvocateCode))

		if err := pool.AddTask(ctx, task); err != nil {
			log.Warn().Err(err).Str("advocateCode", advocate.AdvocateCode).Msg("Could not enqueue scrape task")
		}
	}

	pool.Stop()
	<-collected

	log.Info().
		Str("listDate", listDate).
		Int("succeeded", succeeded).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("Daily causelist sweep finished")

	return nil
}

func (s *Scheduler) scrapeAndStore(ctx context.Context, advocate repository.WatchedAdvocate, listDate string) (Outcome, error) {
	date, err := time.Parse(causelist.DateLayout, listDate)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", causelist.ErrValidation, err)
	}

	_, err = s.db.Queries.GetSnapshotByCodeAndDate(ctx, repository.GetSnapshotByCodeAndDateParams{
		AdvocateCode: advocate.AdvocateCode,
		ListDate:     date,
	})
	if err == nil {
		return Outcome{AdvocateCode: advocate.AdvocateCode, Skipped: true}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		log.Warn().Err(err).Str("advocateCode", advocate.AdvocateCode).Msg("Snapshot lookup failed, scraping anyway")
	}

	result, err := s.scraper.Fetch(ctx, advocate.AdvocateCode, listDate)
	if err != nil {
		if dispatchErr := s.dispatcher.CauselistFailed(ctx, advocate.AdvocateCode, listDate, err); dispatchErr != nil {
			log.Warn().Err(dispatchErr).Str("advocateCode", advocate.AdvocateCode).Msg("Could not publish failure event")
		}
		return Outcome{}, err
	}

	rawPath := s.archiveRawPage(ctx, advocate.AdvocateCode, listDate, result.RawHTML)

	payload, err := json.Marshal(result)
	if err != nil {
		return Outcome{}, fmt.Errorf("encoding scrape result: %w", err)
	}

	snapshot, err := s.db.Queries.CreateSnapshot(ctx, repository.CreateSnapshotParams{
		ID:           uuid.New().String(),
		AdvocateCode: advocate.AdvocateCode,
		ListDate:     date,
		CaseCount:    int32(result.Count),
		Method:       result.Method,
		RawPagePath:  pgtype.Text{String: rawPath, Valid: rawPath != ""},
		Result:       payload,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("storing snapshot: %w", err)
	}

	if s.db.Redis != nil {
		if err := s.db.Redis.SetCauselist(ctx, result, s.cfg.Scheduler.ResultTTL); err != nil {
			log.Warn().Err(err).Str("advocateCode", advocate.AdvocateCode).Msg("Could not cache scrape result")
		}
	}

	if result.Count > 0 {
		recipients := decodeRecipients(advocate.Recipients)
		s.dispatcher.CauselistReady(ctx, result, snapshot.ID, recipients)
	}

	return Outcome{
		AdvocateCode: advocate.AdvocateCode,
		SnapshotID:   snapshot.ID,
		CaseCount:    result.Count,
	}, nil
}

// archiveRawPage uploads the fetched HTML for later reparsing. Failures
// degrade to a missing archive link, never to a failed sweep.
func (s *Scheduler) archiveRawPage(ctx context.Context, advocateCode, listDate, rawHTML string) string {
	if s.storage == nil || s.cfg.GCS.Bucket == "" || rawHTML == "" {
		return ""
	}

	objectName := fmt.Sprintf("causelists/%s/%s.html", listDate, advocateCode)
	path, err := s.storage.Upload(ctx, s.cfg.GCS.Bucket, objectName, []byte(rawHTML), "text/html")
	if err != nil {
		log.Warn().Err(err).Str("object", objectName).Msg("Could not archive raw causelist page")
		return ""
	}
	return path
}

func decodeRecipients(raw []byte) []notifier.Recipient {
	if len(raw) == 0 {
		return nil
	}
	var recipients []notifier.Recipient
	if err := json.Unmarshal(raw, &recipients); err != nil {
		log.Warn().Err(err).Msg("Could not decode watched advocate recipients")
		return nil
	}
	return recipients
}
