package handler

import (
	"errors"
	"net/http"

	"github.com/advocatehq/causelist-http-service/causelist"
	"github.com/advocatehq/causelist-http-service/common/utils"
	"github.com/advocatehq/causelist-http-service/courtapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// CourtHandler proxies the court's auxiliary endpoints.
type CourtHandler struct {
	client *courtapi.Client
	router *chi.Mux
}

func NewCourtHandler(client *courtapi.Client) *CourtHandler {
	h := &CourtHandler{
		client: client,
	}

	router := chi.NewRouter()
	router.Get("/case-details", h.handleCaseDetails)
	router.Get("/advocate-report", h.handleAdvocateReport)
	router.Get("/sitting-arrangements", h.handleSittingArrangements)
	router.Get("/notice", h.handleNotice)

	h.router = router
	return h
}

func (h *CourtHandler) Router() *chi.Mux {
	return h.router
}

type CaseDetailsParams struct {
	CaseType   string `validate:"required,alpha"`
	CaseNumber string `validate:"required,numeric"`
	CaseYear   string `validate:"required,len=4,numeric"`
}

func (h *CourtHandler) handleCaseDetails(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	p := CaseDetailsParams{
		CaseType:   query.Get("mtype"),
		CaseNumber: query.Get("mno"),
		CaseYear:   query.Get("myear"),
	}

	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := h.client.CaseDetails(r.Context(), p.CaseType, p.CaseNumber, p.CaseYear)
	if err != nil {
		h.writeUpstreamError(w, err, "case details")
		return
	}

	utils.WriteJSON(w, http.StatusOK, details)
}

type AdvocateReportParams struct {
	AdvocateCode string `validate:"required,numeric"`
	Year         string `validate:"required,len=4,numeric"`
}

func (h *CourtHandler) handleAdvocateReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	p := AdvocateReportParams{
		AdvocateCode: query.Get("advcode"),
		Year:         query.Get("year"),
	}

	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.client.AdvocateReport(r.Context(), p.AdvocateCode, p.Year)
	if err != nil {
		h.writeUpstreamError(w, err, "advocate report")
		return
	}

	utils.WriteJSON(w, http.StatusOK, report)
}

func (h *CourtHandler) handleSittingArrangements(w http.ResponseWriter, r *http.Request) {
	arrangements, err := h.client.SittingArrangements(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err, "sitting arrangements")
		return
	}

	utils.WriteJSON(w, http.StatusOK, arrangements)
}

func (h *CourtHandler) handleNotice(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("link")
	if link == "" {
		utils.WriteError(w, http.StatusBadRequest, "link is required")
		return
	}

	markdown, err := h.client.NoticeMarkdown(r.Context(), link)
	if err != nil {
		h.writeUpstreamError(w, err, "notice")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"markdown": markdown})
}

func (h *CourtHandler) writeUpstreamError(w http.ResponseWriter, err error, what string) {
	log.Warn().Err(err).Str("endpoint", what).Msg("Court API request failed")

	if errors.Is(err, causelist.ErrTimeout) {
		utils.WriteError(w, http.StatusGatewayTimeout, "The court website timed out")
		return
	}
	utils.WriteError(w, http.StatusBadGateway, "The court website could not be reached")
}
