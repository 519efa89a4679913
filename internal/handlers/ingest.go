package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gridironhq/props-api/internal/models"
)

// IngestSamples handles POST /api/v1/ingest/samples
// @Summary Ingest Game Samples
// @Description Accepts a JSON array of completed-game stat lines for the
// @Description performance corpus. Samples are queued for asynchronous
// @Description analytics insert and narrative indexing.
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param body body []models.GameSample true "Samples"
// @Success 202 {object} map[string]interface{} "Accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /ingest/samples [post]
func (h *Handler) IngestSamples(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var samples []models.GameSample
	if err := json.NewDecoder(r.Body).Decode(&samples); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if len(samples) == 0 {
		h.errorResponse(w, http.StatusBadRequest, "Empty sample batch")
		return
	}

	accepted := 0
	rejected := 0
	for i, sample := range samples {
		if err := h.validator.Struct(sample); err != nil {
			h.logger.Warnw("Rejected invalid sample",
				"index", i,
				"player_id", sample.PlayerID,
				"error", err)
			rejected++
			continue
		}
		if !h.pool.Enqueue(sample) {
			h.logger.Warn("Ingest queue full, dropping remainder of batch")
			break
		}
		accepted++
	}

	h.jsonResponse(w, http.StatusAccepted, map[string]interface{}{
		"status":   "accepted",
		"accepted": accepted,
		"rejected": rejected,
		"dropped":  len(samples) - accepted - rejected,
	})
}
