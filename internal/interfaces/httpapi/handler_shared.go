package httpapi

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/hoopsight/fantasy-basketball/internal/domain/stats"
	"github.com/hoopsight/fantasy-basketball/internal/platform/logging"
	"github.com/hoopsight/fantasy-basketball/internal/usecase"
)

type Handler struct {
	predictionService *usecase.PredictionService
	statsService      *usecase.StatsService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	predictionService *usecase.PredictionService,
	statsService *usecase.StatsService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		predictionService: predictionService,
		statsService:      statsService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type predictGameRequest struct {
	HomeTeam string `json:"home_team" validate:"required,min=2,max=3"`
	AwayTeam string `json:"away_team" validate:"required,min=2,max=3"`
}

type slateGameRequest struct {
	HomeTeam string `json:"home_team" validate:"required,min=2,max=3"`
	AwayTeam string `json:"away_team" validate:"required,min=2,max=3"`
}

type predictSlateRequest struct {
	Games []slateGameRequest `json:"games" validate:"required,min=1,max=15,dive"`
}

type analyzeMatchupRequest struct {
	PlayerName string `json:"player_name" validate:"required,max=80"`
	Opponent   string `json:"opponent" validate:"required,min=2,max=3"`
	Window     int    `json:"window" validate:"omitempty,gte=1,lte=82"`
}

type playerSeasonStatsDTO struct {
	PlayerName    string  `json:"player"`
	TeamCode      string  `json:"team"`
	GamesPlayed   int     `json:"games_played"`
	Minutes       float64 `json:"minutes"`
	Points        float64 `json:"points"`
	Rebounds      float64 `json:"rebounds"`
	Assists       float64 `json:"assists"`
	Steals        float64 `json:"steals"`
	Blocks        float64 `json:"blocks"`
	Turnovers     float64 `json:"turnovers"`
	FieldGoalPct  float64 `json:"fg_pct"`
	FreeThrowPct  float64 `json:"ft_pct"`
	ThreePointPct float64 `json:"fg3_pct"`
}

type healthDTO struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func seasonRowToDTO(ctx context.Context, row stats.Row) playerSeasonStatsDTO {
	_, span := startSpan(ctx, "httpapi.seasonRowToDTO")
	defer span.End()

	return playerSeasonStatsDTO{
		PlayerName:    row.PlayerName,
		TeamCode:      row.TeamCode,
		GamesPlayed:   row.GamesPlayed,
		Minutes:       row.Minutes,
		Points:        row.Points,
		Rebounds:      row.Rebounds,
		Assists:       row.Assists,
		Steals:        row.Steals,
		Blocks:        row.Blocks,
		Turnovers:     row.Turnovers,
		FieldGoalPct:  row.FieldGoalPct,
		FreeThrowPct:  row.FreeThrowPct,
		ThreePointPct: row.ThreePointPct,
	}
}
