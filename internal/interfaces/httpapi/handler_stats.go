package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hoopsight/fantasy-basketball/internal/usecase"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, healthDTO{
		Status:  "ok",
		Service: "fantasy-basketball-api",
	})
}

func (h *Handler) GetPlayerSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerSeasonStats")
	defer span.End()

	playerName := strings.TrimSpace(r.PathValue("playerName"))

	row, err := h.statsService.PlayerSeasonStats(ctx, playerName)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonRowToDTO(ctx, row))
}

func (h *Handler) ListLeagueLeaders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueLeaders")
	defer span.End()

	category := strings.TrimSpace(r.PathValue("category"))
	limit, err := parseLimitParam(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leaders, err := h.statsService.LeagueLeaders(ctx, category, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaders)
}

func (h *Handler) ListTeamDefenseRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamDefenseRankings")
	defer span.End()

	rankings, err := h.statsService.TeamDefenseRankings(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankings)
}

func (h *Handler) GetLeagueOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueOverview")
	defer span.End()

	overview, err := h.statsService.LeagueOverview(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overview)
}

func parseLimitParam(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer, got %q", usecase.ErrInvalidInput, raw)
	}
	return value, nil
}
