package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/clan-bingo/internal/usecase"
)

func (h *Handler) EvaluatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EvaluatePlayer")
	defer span.End()

	eventID, playerID := r.PathValue("eventID"), r.PathValue("playerID")
	out, err := h.evaluationService.EvaluatePlayer(ctx, eventID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "evaluate player failed", "event_id", eventID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, evaluationToDTO(out))
}

// GetPlayerProgress accepts ?round_per_task=false to sum unrounded task partials.
func (h *Handler) GetPlayerProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerProgress")
	defer span.End()

	roundPerTask := true
	if raw := strings.TrimSpace(r.URL.Query().Get("round_per_task")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: round_per_task must be a boolean", usecase.ErrInvalidInput))
			return
		}
		roundPerTask = parsed
	}

	eventID, playerID := r.PathValue("eventID"), r.PathValue("playerID")
	report, err := h.contributionService.ComputeIndividualPartialPoints(ctx, eventID, playerID, roundPerTask)
	if err != nil {
		h.logger.WarnContext(ctx, "get player progress failed", "event_id", eventID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerProgressToDTO(report))
}

func (h *Handler) GetTeamProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamProgress")
	defer span.End()

	eventID, teamID := r.PathValue("eventID"), r.PathValue("teamID")
	report, err := h.contributionService.ComputeTeamPartialPoints(ctx, eventID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team progress failed", "event_id", eventID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamProgressToDTO(report))
}

func (h *Handler) UpsertTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertTeam")
	defer span.End()

	eventID, teamID := r.PathValue("eventID"), r.PathValue("teamID")
	var req upsertTeamRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	team, err := h.teamService.UpsertTeam(ctx, usecase.UpsertTeamInput{
		EventID:   eventID,
		TeamID:    teamID,
		Name:      req.Name,
		PlayerIDs: req.PlayerIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert team failed", "event_id", eventID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if teamID == "" {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, teamToDTO(team))
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	team, err := h.teamService.GetTeam(ctx, r.PathValue("eventID"), r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func (h *Handler) GetPlayerBalances(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerBalances")
	defer span.End()

	playerID := r.PathValue("playerID")
	balances, err := h.leaderboardService.PlayerBalances(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player balances failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"player_id": playerID,
		"balances":  balancesToDTO(balances),
	})
}
