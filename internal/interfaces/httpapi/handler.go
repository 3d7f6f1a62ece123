package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/usecase"
)

const defaultPageLimit = 100

// StatusProvider reports pipeline progress for the status endpoint.
type StatusProvider interface {
	Status(ctx context.Context) (usecase.PipelineStatus, error)
}

type Handler struct {
	leagueService *usecase.LeagueService
	teamService   *usecase.TeamService
	status        StatusProvider
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	teamService *usecase.TeamService,
	status StatusProvider,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService: leagueService,
		teamService:   teamService,
		status:        status,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStatus")
	defer span.End()

	if h.status == nil {
		writeError(ctx, w, fmt.Errorf("%w: pipeline status is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	status, err := h.status.Status(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get pipeline status failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pipelineStatusDTO{
		Leagues:        status.Leagues,
		PendingDetails: status.PendingDetails,
	})
}

type pageQuery struct {
	Offset int `validate:"gte=0"`
	Limit  int `validate:"gte=0,lte=500"`
}

// parsePage reads offset and limit from the query string. Missing values
// fall back to offset 0 and the default page size.
func (h *Handler) parsePage(ctx context.Context, r *http.Request) (pageQuery, error) {
	ctx, span := startSpan(ctx, "httpapi.Handler.parsePage")
	defer span.End()

	page := pageQuery{Limit: defaultPageLimit}
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return pageQuery{}, fmt.Errorf("%w: offset must be an integer", usecase.ErrInvalidInput)
		}
		page.Offset = v
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return pageQuery{}, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput)
		}
		page.Limit = v
	}

	if err := h.validateRequest(ctx, page); err != nil {
		return pageQuery{}, err
	}

	return page, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
