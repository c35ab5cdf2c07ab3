package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/games/predict", handler.PredictGame)
	mux.HandleFunc("POST /v1/games/over-under", handler.PredictOverUnder)
	mux.HandleFunc("POST /v1/games/slate", handler.PredictSlate)
	mux.HandleFunc("POST /v1/matchups/analyze", handler.AnalyzeMatchup)
	mux.HandleFunc("GET /v1/players/{playerName}/forecast", handler.ForecastPlayer)
}

func registerStatsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/{playerName}/stats", handler.GetPlayerSeasonStats)
	mux.HandleFunc("GET /v1/leaders/{category}", handler.ListLeagueLeaders)
	mux.HandleFunc("GET /v1/teams/defense-rankings", handler.ListTeamDefenseRankings)
	mux.HandleFunc("GET /v1/overview", handler.GetLeagueOverview)
}
