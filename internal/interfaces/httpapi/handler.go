package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
	"github.com/riskibarqy/clan-bingo/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	eventService        *usecase.EventService
	teamService         *usecase.TeamService
	contributionService *usecase.ContributionService
	evaluationService   *usecase.EvaluationService
	leaderboardService  *usecase.LeaderboardService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	eventService *usecase.EventService,
	teamService *usecase.TeamService,
	contributionService *usecase.ContributionService,
	evaluationService *usecase.EvaluationService,
	leaderboardService *usecase.LeaderboardService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		eventService:        eventService,
		teamService:         teamService,
		contributionService: contributionService,
		evaluationService:   evaluationService,
		leaderboardService:  leaderboardService,
		logger:              logger,
		validator:           validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest reads a JSON body strictly and runs the struct's validate tags.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
