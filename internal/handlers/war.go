package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/clanwars/cwl-stats/internal/logic"
	"github.com/clanwars/cwl-stats/internal/models"
)

// ============================================================================
// WAR ENDPOINTS
// ============================================================================

// GetWarOutcome estimates the outcome of one war snapshot
// @Summary War Outcome Estimate
// @Description Returns a final, secured or open (win/draw/loss %) verdict for the clan
// @Tags War
// @Accept json
// @Produce json
// @Param clan_tag query string false "Clan the verdict is for (defaults to the snapshot's clan side)"
// @Param previous query string false "Previously reported verdict, e.g. secured:win"
// @Param body body models.WarSnapshot true "War snapshot"
// @Success 200 {object} models.WarAnalysis
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Queue full"
// @Router /war/outcome [post]
func (h *Handler) GetWarOutcome(w http.ResponseWriter, r *http.Request) {
	var snap models.WarSnapshot
	if err := h.decodeBody(w, r, &snap); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var prev *models.OutcomeEstimate
	if raw := r.URL.Query().Get("previous"); raw != "" {
		p, ok := models.ParseVerdict(raw)
		if !ok {
			h.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid previous verdict %q", raw))
			return
		}
		prev = &p
	}

	clanTag := r.URL.Query().Get("clan_tag")

	ctx, cancel := context.WithTimeout(r.Context(), h.analysisTimeout)
	defer cancel()

	analysis, err := h.pool.Submit(ctx, &snap, clanTag)
	if err != nil {
		h.serviceError(w, err, "Failed to analyze war", "clan", clanTag)
		return
	}

	if prev != nil {
		if err := logic.CheckTransition(*prev, analysis.Outcome); errors.Is(err, logic.ErrVerdictReversed) {
			h.logger.Warnw("Verdict reversed between snapshots", "snapshot", analysis.SnapshotKey, "error", err)
			analysis.Warnings = append(analysis.Warnings, err.Error())
		}
	}

	h.jsonResponse(w, http.StatusOK, analysis)
}

// GetWarSummary returns the scoreboard and attack rankings of one war
// @Summary War Summary
// @Tags War
// @Accept json
// @Produce json
// @Param clan_tag query string false "Clan to orient the summary on"
// @Param body body models.WarSnapshot true "War snapshot"
// @Success 200 {object} models.WarSummary
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /war/summary [post]
func (h *Handler) GetWarSummary(w http.ResponseWriter, r *http.Request) {
	var snap models.WarSnapshot
	if err := h.decodeBody(w, r, &snap); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	clanTag := r.URL.Query().Get("clan_tag")
	summary, err := h.wars.Summarize(r.Context(), &snap, clanTag)
	if err != nil {
		h.serviceError(w, err, "Failed to summarize war", "clan", clanTag)
		return
	}

	h.jsonResponse(w, http.StatusOK, summary)
}

// GetLiveRounds filters league rounds down to the wars worth showing
// @Summary Live League Rounds
// @Description LIVE returns wars in progress or the latest ended war; all=true returns every round
// @Tags League
// @Accept json
// @Produce json
// @Param clan_tag query string true "Clan tag"
// @Param all query bool false "Return every round"
// @Param body body models.RoundsRequest true "League rounds"
// @Success 200 {object} models.RoundSelection
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /league/rounds/live [post]
func (h *Handler) GetLiveRounds(w http.ResponseWriter, r *http.Request) {
	clanTag := r.URL.Query().Get("clan_tag")
	if clanTag == "" {
		h.errorResponse(w, http.StatusBadRequest, "clan_tag is required")
		return
	}

	all := false
	if raw := r.URL.Query().Get("all"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, "all must be a boolean")
			return
		}
		all = b
	}

	var req models.RoundsRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sel, err := h.wars.SelectRounds(r.Context(), req.Rounds, clanTag, all)
	if err != nil {
		h.serviceError(w, err, "Failed to select rounds", "clan", clanTag)
		return
	}

	h.jsonResponse(w, http.StatusOK, sel)
}
