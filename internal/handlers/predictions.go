package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gridironhq/props-api/internal/logic"
	"github.com/gridironhq/props-api/internal/models"
)

// PredictProp generates a single prop prediction through the full pipeline
// @Summary Generate Prop Prediction
// @Tags Predictions
// @Accept json
// @Produce json
// @Param request body models.PredictionRequest true "Prop to predict"
// @Success 200 {object} models.PredictionResponse
// @Failure 400 {object} map[string]string "Schedule or input error"
// @Failure 404 {object} map[string]string "Player not found"
// @Failure 409 {object} map[string]string "Active prediction exists"
// @Failure 500 {object} map[string]string "Reasoning or persistence failure"
// @Router /predictions/predict [post]
func (h *Handler) PredictProp(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	prediction, err := h.predictor.Predict(r.Context(), req)
	if err != nil {
		h.predictionError(w, req, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, models.PredictionResponse{Prediction: prediction})
}

// predictionError maps pipeline failures onto the error taxonomy: schedule
// and input errors are the caller's to fix (4xx), everything else is ours.
func (h *Handler) predictionError(w http.ResponseWriter, req models.PredictionRequest, err error) {
	var mismatch *logic.OpponentMismatchError

	switch {
	case errors.Is(err, logic.ErrPlayerNotFound):
		h.errorResponse(w, http.StatusNotFound, err.Error())
	case errors.As(err, &mismatch),
		errors.Is(err, logic.ErrNoScheduledGame),
		errors.Is(err, logic.ErrGameCompleted),
		errors.Is(err, logic.ErrNoTeam):
		h.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, logic.ErrDuplicatePrediction):
		h.errorResponse(w, http.StatusConflict, err.Error())
	default:
		h.logger.Errorw("Prediction failed",
			"player_id", req.PlayerID,
			"stat_type", req.StatType,
			"error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Prediction failed")
	}
}

// GetOpportunities returns the active predictions feed
// @Summary List Prediction Opportunities
// @Tags Predictions
// @Produce json
// @Param position query string false "Player position (QB, RB, WR, TE)"
// @Param stat_type query string false "Stat type filter"
// @Param min_confidence query int false "Minimum confidence (0-100)"
// @Param min_edge query number false "Minimum absolute edge"
// @Param limit query int false "Result limit (default 50, max 200)"
// @Success 200 {array} models.Prediction
// @Router /predictions/opportunities [get]
func (h *Handler) GetOpportunities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.OpportunityFilter{
		Position: q.Get("position"),
		StatType: q.Get("stat_type"),
	}
	if v := q.Get("min_confidence"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.MinConfidence = n
		}
	}
	if v := q.Get("min_edge"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinEdge = f
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	predictions, err := h.store.ListOpportunities(r.Context(), filter)
	if err != nil {
		h.logger.Errorw("Failed to list opportunities", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to list opportunities")
		return
	}
	if predictions == nil {
		predictions = []models.Prediction{}
	}

	h.jsonResponse(w, http.StatusOK, predictions)
}

// GenerateBatch triggers weekly batch generation
// @Summary Generate Weekly Predictions
// @Tags Predictions
// @Accept json
// @Produce json
// @Param request body models.BatchRequest true "Week to generate"
// @Success 200 {object} models.BatchSummary
// @Failure 400 {object} map[string]string
// @Router /predictions/batch [post]
func (h *Handler) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	season := req.Season
	if season == 0 {
		state, err := h.schedule.CurrentState(r.Context())
		if err != nil {
			h.logger.Errorw("Failed to resolve current season", "error", err)
			h.errorResponse(w, http.StatusInternalServerError, "Failed to resolve current season")
			return
		}
		season = state.Season
	}

	summary, err := h.batch.GenerateWeekly(r.Context(), req.Week, season, req.MaxPlayers)
	if err != nil {
		h.logger.Errorw("Batch generation failed", "week", req.Week, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Batch generation failed")
		return
	}

	h.jsonResponse(w, http.StatusOK, summary)
}

// ResolveOutcome records the observed stat value and grades the prediction
// @Summary Resolve Prediction Outcome
// @Tags Predictions
// @Accept json
// @Produce json
// @Param id path string true "Prediction ID"
// @Param request body models.OutcomeRequest true "Observed stat value"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /predictions/{id}/outcome [post]
func (h *Handler) ResolveOutcome(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	id := chi.URLParam(r, "id")
	if id == "" {
		h.errorResponse(w, http.StatusBadRequest, "Missing prediction id")
		return
	}

	var req models.OutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if err := h.store.ResolveOutcome(r.Context(), id, req.ActualValue); err != nil {
		if errors.Is(err, logic.ErrPredictionNotFound) {
			h.errorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Errorw("Failed to resolve outcome", "prediction_id", id, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to resolve outcome")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SweepFreshness deactivates stale predictions
// @Summary Run Freshness Sweep
// @Tags Predictions
// @Produce json
// @Success 200 {object} models.SweepResult
// @Router /predictions/freshness/sweep [post]
func (h *Handler) SweepFreshness(w http.ResponseWriter, r *http.Request) {
	result, err := h.freshness.Sweep(r.Context())
	if err != nil {
		h.logger.Errorw("Freshness sweep failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Freshness sweep failed")
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// GetFreshnessStats reports the staleness profile of active predictions
// @Summary Get Freshness Stats
// @Tags Predictions
// @Produce json
// @Success 200 {object} models.FreshnessStats
// @Router /predictions/freshness/stats [get]
func (h *Handler) GetFreshnessStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.freshness.Stats(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to get freshness stats", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to get freshness stats")
		return
	}

	h.jsonResponse(w, http.StatusOK, stats)
}
