package httpapi

import (
	"net/http"

	"github.com/riskibarqy/clan-bingo/internal/usecase"
)

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateEvent")
	defer span.End()

	var req createEventRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.eventService.CreateEvent(ctx, usecase.CreateEventInput{
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		TaskIDs: req.TaskIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create event failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, createdEventToDTO(created))
}

func (h *Handler) EnrollPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EnrollPlayer")
	defer span.End()

	eventID := r.PathValue("eventID")
	var req enrollPlayerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.eventService.EnrollPlayer(ctx, eventID, req.PlayerID); err != nil {
		h.logger.WarnContext(ctx, "enroll player failed", "event_id", eventID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"event_id": eventID, "player_id": req.PlayerID})
}

func (h *Handler) StartEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartEvent")
	defer span.End()

	eventID := r.PathValue("eventID")
	if err := h.eventService.StartEvent(ctx, eventID); err != nil {
		h.logger.WarnContext(ctx, "start event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"event_id": eventID, "state": "ongoing"})
}

func (h *Handler) CompleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteEvent")
	defer span.End()

	eventID := r.PathValue("eventID")
	if err := h.eventService.CompleteEvent(ctx, eventID); err != nil {
		h.logger.WarnContext(ctx, "complete event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"event_id": eventID, "state": "completed"})
}

func (h *Handler) GetRotation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRotation")
	defer span.End()

	eventID := r.PathValue("eventID")
	rotation, err := h.eventService.GetRotation(ctx, eventID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rotationToDTO(rotation))
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	eventID := r.PathValue("eventID")
	rows, err := h.leaderboardService.EventLeaderboard(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(rows))
}

func (h *Handler) RunEvaluationPass(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunEvaluationPass")
	defer span.End()

	result, err := h.evaluationService.RunPass(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "evaluation pass failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"events_started":   result.States.Started,
		"events_completed": result.States.Completed,
		"events":           result.EventCount,
		"players":          result.PlayerCount,
		"succeeded":        result.SuccessCount,
		"failed":           result.FailedCount,
		"task_points":      result.TaskPoints,
		"patterns_awarded": result.PatternsAwarded,
		"duration_ms":      result.DurationMs,
		"skipped_overlap":  result.SkippedOverlap,
	})
}
