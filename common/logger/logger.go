package logger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/advocatehq/causelist-http-service/common/db"
	"github.com/advocatehq/causelist-http-service/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ScrapeLogHook implements zerolog.Hook and mirrors warn-or-worse log
// events into the scrape_logs table.
type ScrapeLogHook struct {
	db *db.DB
}

// NewScrapeLogHook creates a new log hook
func NewScrapeLogHook(db *db.DB) *ScrapeLogHook {
	return &ScrapeLogHook{
		db: db,
	}
}

// Run implements zerolog.Hook.Run
func (h *ScrapeLogHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level < zerolog.WarnLevel {
		return
	}

	event := LogEvent{
		EventType: level.String(),
		Message:   msg,
	}

	// Written asynchronously so logging never blocks on the database.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.logToDatabase(ctx, event); err != nil {
			// Plain logger here, the hook must not recurse into itself.
			log.Error().Err(err).Msg("Failed to log to database via hook")
		}
	}()
}

func (h *ScrapeLogHook) logToDatabase(ctx context.Context, event LogEvent) error {
	detailsJSON := json.RawMessage("{}")
	if event.Details != nil {
		encoded, err := json.Marshal(event.Details)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal log details")
		} else {
			detailsJSON = encoded
		}
	}

	params := repository.CreateScrapeLogParams{
		ID: uuid.New().String(),
		AdvocateCode: pgtype.Text{
			String: event.AdvocateCode,
			Valid:  event.AdvocateCode != "",
		},
		EventType: event.EventType,
		Message: pgtype.Text{
			String: event.Message,
			Valid:  event.Message != "",
		},
		Details: detailsJSON,
	}

	return h.db.Queries.CreateScrapeLog(ctx, params)
}

// LogEvent represents a scrape log event
type LogEvent struct {
	AdvocateCode string
	EventType    string
	Message      string
	Details      interface{}
}

// InitializeLogging attaches the database hook to the global logger.
func InitializeLogging(db *db.DB) {
	hook := NewScrapeLogHook(db)
	log.Logger = log.Logger.Hook(hook)
}

// LogService provides structured scrape-event logging to the database
type LogService struct {
	db *db.DB
}

// NewLogService creates a new log service
func NewLogService(db *db.DB) *LogService {
	return &LogService{
		db: db,
	}
}

// Log creates a log entry in the database
func (s *LogService) Log(ctx context.Context, event LogEvent) error {
	detailsJSON := json.RawMessage("{}")
	if event.Details != nil {
		encoded, err := json.Marshal(event.Details)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal log details")
		} else {
			detailsJSON = encoded
		}
	}

	params := repository.CreateScrapeLogParams{
		ID: uuid.New().String(),
		AdvocateCode: pgtype.Text{
			String: event.AdvocateCode,
			Valid:  event.AdvocateCode != "",
		},
		EventType: event.EventType,
		Message: pgtype.Text{
			String: event.Message,
			Valid:  event.Message != "",
		},
		Details: detailsJSON,
	}

	if err := s.db.Queries.CreateScrapeLog(ctx, params); err != nil {
		log.Error().Err(err).Msg("Failed to insert log into database")
		return err
	}

	log.Info().
		Str("advocateCode", event.AdvocateCode).
		Str("eventType", event.EventType).
		Interface("details", event.Details).
		Msg(event.Message)

	return nil
}

// ScrapeStart logs the start of a scrape operation
func (s *LogService) ScrapeStart(ctx context.Context, advocateCode, listDate string) error {
	return s.Log(ctx, LogEvent{
		AdvocateCode: advocateCode,
		EventType:    "scrape.started",
		Message:      "Causelist scrape started",
		Details: map[string]interface{}{
			"list_date": listDate,
		},
	})
}

// ScrapeComplete logs the completion of a scrape operation
func (s *LogService) ScrapeComplete(ctx context.Context, advocateCode, listDate, method string, caseCount int) error {
	return s.Log(ctx, LogEvent{
		AdvocateCode: advocateCode,
		EventType:    "scrape.completed",
		Message:      "Causelist scrape completed",
		Details: map[string]interface{}{
			"list_date":  listDate,
			"method":     method,
			"case_count": caseCount,
		},
	})
}

// Error logs a scrape failure
func (s *LogService) Error(ctx context.Context, advocateCode, message string, err error, details interface{}) error {
	detailMap := map[string]interface{}{
		"error": err.Error(),
	}
	if details != nil {
		if extra, ok := details.(map[string]interface{}); ok {
			for k, v := range extra {
				detailMap[k] = v
			}
		} else {
			detailMap["additional"] = details
		}
	}

	return s.Log(ctx, LogEvent{
		AdvocateCode: advocateCode,
		EventType:    "error",
		Message:      message,
		Details:      detailMap,
	})
}
