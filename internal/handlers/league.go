package handlers

import (
	"net/http"

	"github.com/clanwars/cwl-stats/internal/models"
)

// GetLeagueStrength ranks league rosters by top-N strength
// @Summary League Strength Ranking
// @Description Weighted top-N tier ranking plus the own clan's position-by-position advantage
// @Tags League
// @Accept json
// @Produce json
// @Param body body models.StrengthRequest true "Rosters"
// @Success 200 {object} models.StrengthResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /league/strength [post]
func (h *Handler) GetLeagueStrength(w http.ResponseWriter, r *http.Request) {
	var req models.StrengthRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.strength.Rank(r.Context(), &req)
	if err != nil {
		h.serviceError(w, err, "Failed to rank rosters")
		return
	}

	h.jsonResponse(w, http.StatusOK, resp)
}
