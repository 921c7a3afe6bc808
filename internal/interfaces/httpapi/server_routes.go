package httpapi

import "net/http"

func registerReadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/events/{eventID}/rotation", handler.GetRotation)
	mux.HandleFunc("GET /v1/events/{eventID}/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/events/{eventID}/players/{playerID}/progress", handler.GetPlayerProgress)
	mux.HandleFunc("GET /v1/events/{eventID}/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/events/{eventID}/teams/{teamID}/progress", handler.GetTeamProgress)
	mux.HandleFunc("GET /v1/players/{playerID}/balances", handler.GetPlayerBalances)
}

func registerOpsRoutes(mux *http.ServeMux, handler *Handler, opsToken string) {
	ops := func(h http.HandlerFunc) http.Handler {
		return RequireOpsToken(opsToken, h)
	}

	mux.Handle("POST /v1/events", ops(handler.CreateEvent))
	mux.Handle("POST /v1/events/{eventID}/participants", ops(handler.EnrollPlayer))
	mux.Handle("POST /v1/events/{eventID}/start", ops(handler.StartEvent))
	mux.Handle("POST /v1/events/{eventID}/complete", ops(handler.CompleteEvent))
	mux.Handle("POST /v1/events/{eventID}/teams", ops(handler.UpsertTeam))
	mux.Handle("PUT /v1/events/{eventID}/teams/{teamID}", ops(handler.UpsertTeam))
	mux.Handle("POST /v1/events/{eventID}/players/{playerID}/evaluate", ops(handler.EvaluatePlayer))
	mux.Handle("POST /v1/evaluations/run", ops(handler.RunEvaluationPass))
}
