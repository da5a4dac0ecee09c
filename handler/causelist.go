package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/advocatehq/causelist-http-service/causelist"
	"github.com/advocatehq/causelist-http-service/common/config"
	"github.com/advocatehq/causelist-http-service/common/db"
	"github.com/advocatehq/causelist-http-service/common/logger"
	"github.com/advocatehq/causelist-http-service/common/storage"
	"github.com/advocatehq/causelist-http-service/common/utils"
	"github.com/advocatehq/causelist-http-service/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// CauselistFetcher is the scrape surface the handler depends on.
type CauselistFetcher interface {
	Fetch(ctx context.Context, advocateCode, listDate string) (causelist.ScrapeResult, error)
}

type CauselistHandler struct {
	db         *db.DB
	fetcher    CauselistFetcher
	storage    storage.StorageService
	logService *logger.LogService
	router     *chi.Mux
	cfg        config.Config
}

func NewCauselistHandler(database *db.DB, fetcher CauselistFetcher, store storage.StorageService, cfg config.Config) *CauselistHandler {
	h := &CauselistHandler{
		db:      database,
		fetcher: fetcher,
		storage: store,
		cfg:     cfg,
	}
	if database != nil {
		h.logService = logger.NewLogService(database)
	}

	router := chi.NewRouter()
	router.Get("/search", h.handleSearch)
	router.Get("/history", h.handleHistory)
	router.Get("/history/{id}", h.handleHistoryDetail)
	router.Get("/history/{id}/page", h.handleHistoryRawPage)
	router.Delete("/history/{id}", h.handleDeleteHistory)

	h.router = router
	return h
}

func (h *CauselistHandler) Router() *chi.Mux {
	return h.router
}

type SearchParams struct {
	AdvocateCode string `validate:"required,numeric"`
	ListDate     string `validate:"required"`
}

// handleSearch scrapes the causelist for one advocate code and date and
// returns the envelope as-is. The date defaults to today; refresh=true
// bypasses the cache.
func (h *CauselistHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	p := SearchParams{
		AdvocateCode: query.Get("advocateCode"),
		ListDate:     query.Get("listDate"),
	}
	if p.ListDate == "" {
		p.ListDate = time.Now().Format(causelist.DateLayout)
	}
	refresh := query.Get("refresh") == "true"

	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !refresh {
		if cached := h.cachedResult(r.Context(), p.AdvocateCode, p.ListDate); cached != nil {
			utils.WriteRawJSON(w, http.StatusOK, cached)
			return
		}
	}

	if h.logService != nil {
		if err := h.logService.ScrapeStart(r.Context(), p.AdvocateCode, p.ListDate); err != nil {
			log.Warn().Err(err).Msg("Could not record scrape start")
		}
	}

	result, err := h.fetcher.Fetch(r.Context(), p.AdvocateCode, p.ListDate)
	switch {
	case errors.Is(err, causelist.ErrValidation):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, causelist.ErrTimeout):
		utils.WriteRawJSON(w, http.StatusGatewayTimeout, result)
		return
	case err != nil:
		if h.logService != nil {
			if logErr := h.logService.Error(r.Context(), p.AdvocateCode, "Causelist scrape failed", err, nil); logErr != nil {
				log.Warn().Err(logErr).Msg("Could not record scrape failure")
			}
		}
		utils.WriteRawJSON(w, http.StatusBadGateway, result)
		return
	}

	if h.logService != nil {
		if err := h.logService.ScrapeComplete(r.Context(), p.AdvocateCode, p.ListDate, result.Method, result.Count); err != nil {
			log.Warn().Err(err).Msg("Could not record scrape completion")
		}
	}

	if h.db != nil && h.db.Redis != nil {
		if err := h.db.Redis.SetCauselist(r.Context(), result, h.cfg.Scheduler.ResultTTL); err != nil {
			log.Warn().Err(err).Msg("Could not cache scrape result")
		}
	}

	utils.WriteRawJSON(w, http.StatusOK, result)
}

func (h *CauselistHandler) cachedResult(ctx context.Context, advocateCode, listDate string) *causelist.ScrapeResult {
	if h.db == nil || h.db.Redis == nil {
		return nil
	}
	if cached, ok := h.db.Redis.GetCauselist(ctx, advocateCode, listDate).Get(); ok {
		return &cached
	}
	return nil
}

// SnapshotResponse is the API shape of a stored snapshot.
type SnapshotResponse struct {
	ID           string          `json:"id"`
	AdvocateCode string          `json:"advocate_code"`
	ListDate     string          `json:"list_date"`
	CaseCount    int32           `json:"case_count"`
	Method       string          `json:"method"`
	HasRawPage   bool            `json:"has_raw_page"`
	CreatedAt    time.Time       `json:"created_at"`
	Result       json.RawMessage `json:"result,omitempty"`
}

func snapshotResponse(s repository.CauselistSnapshot, includeResult bool) SnapshotResponse {
	resp := SnapshotResponse{
		ID:           s.ID,
		AdvocateCode: s.AdvocateCode,
		ListDate:     s.ListDate.Format(causelist.DateLayout),
		CaseCount:    s.CaseCount,
		Method:       s.Method,
		HasRawPage:   s.RawPagePath.Valid,
		CreatedAt:    s.CreatedAt,
	}
	if includeResult {
		resp.Result = json.RawMessage(s.Result)
	}
	return resp
}

// requireDB rejects history requests when the handler runs without a
// database, instead of panicking into the recoverer.
func (h *CauselistHandler) requireDB(w http.ResponseWriter) bool {
	if h.db == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "History storage is not available")
		return false
	}
	return true
}

func (h *CauselistHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !h.requireDB(w) {
		return
	}

	query := r.URL.Query()
	advocateCode := query.Get("advocateCode")

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(query.Get("perPage"))
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	snapshots, err := h.db.Queries.ListSnapshots(r.Context(), repository.ListSnapshotsParams{
		AdvocateCode: advocateCode,
		Limit:        int32(perPage),
		Offset:       int32((page - 1) * perPage),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to list snapshots")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to list snapshots")
		return
	}

	total, err := h.db.Queries.CountSnapshots(r.Context(), advocateCode)
	if err != nil {
		log.Error().Err(err).Msg("Failed to count snapshots")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to count snapshots")
		return
	}

	items := lo.Map(snapshots, func(s repository.CauselistSnapshot, _ int) SnapshotResponse {
		return snapshotResponse(s, false)
	})

	utils.WritePagination(w, http.StatusOK, items, page, perPage, total)
}

func (h *CauselistHandler) handleHistoryDetail(w http.ResponseWriter, r *http.Request) {
	if !h.requireDB(w) {
		return
	}

	id := chi.URLParam(r, "id")

	snapshot, err := h.db.Queries.GetSnapshotByID(r.Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		utils.WriteError(w, http.StatusNotFound, "Snapshot not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to load snapshot")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}

	utils.WriteJSON(w, http.StatusOK, snapshotResponse(snapshot, true))
}

// handleHistoryRawPage hands out a time-limited link to the archived
// results page backing a snapshot.
func (h *CauselistHandler) handleHistoryRawPage(w http.ResponseWriter, r *http.Request) {
	if !h.requireDB(w) {
		return
	}

	id := chi.URLParam(r, "id")

	snapshot, err := h.db.Queries.GetSnapshotByID(r.Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		utils.WriteError(w, http.StatusNotFound, "Snapshot not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to load snapshot")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}

	if h.storage == nil || !snapshot.RawPagePath.Valid {
		utils.WriteError(w, http.StatusNotFound, "No archived page for this snapshot")
		return
	}

	url, err := h.storage.GetSignedURL(r.Context(), h.cfg.GCS.Bucket, snapshot.RawPagePath.String, 3600)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to sign archive URL")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to sign archive URL")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *CauselistHandler) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if !h.requireDB(w) {
		return
	}

	id := chi.URLParam(r, "id")

	affected, err := h.db.Queries.DeleteSnapshot(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to delete snapshot")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to delete snapshot")
		return
	}
	if affected == 0 {
		utils.WriteError(w, http.StatusNotFound, "Snapshot not found")
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Snapshot deleted")
}
