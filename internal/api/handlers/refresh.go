package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dealwarden/dealwarden/internal/api/middleware"
	"github.com/dealwarden/dealwarden/internal/engine"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// Refresher defines the interface for triggering a refresh pass.
type Refresher interface {
	Refresh(ctx context.Context) (*domain.RefreshStats, error)
}

// JobRunsProvider defines the store methods required for job history.
type JobRunsProvider interface {
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)
}

// RefreshHandler handles manual and cron-triggered refresh requests.
type RefreshHandler struct {
	refresher Refresher
	jobs      JobRunsProvider
}

// NewRefreshHandler creates a new RefreshHandler.
func NewRefreshHandler(r Refresher, jobs JobRunsProvider) *RefreshHandler {
	return &RefreshHandler{refresher: r, jobs: jobs}
}

// RefreshOutput is the response body for a completed refresh pass.
type RefreshOutput struct {
	Body struct {
		Status string              `json:"status" example:"refresh complete"`
		Stats  domain.RefreshStats `json:"stats"`
	}
}

// TriggerRefresh runs one refresh pass synchronously. A pass already in
// flight is reported as a conflict rather than queued.
func (h *RefreshHandler) TriggerRefresh(ctx context.Context, _ *struct{}) (*RefreshOutput, error) {
	stats, err := h.refresher.Refresh(ctx)
	if err != nil {
		if errors.Is(err, engine.ErrRefreshInFlight) {
			return nil, huma.Error409Conflict("a refresh pass is already running")
		}
		return nil, huma.Error500InternalServerError("refresh failed: " + err.Error())
	}

	resp := &RefreshOutput{}
	resp.Body.Status = "refresh complete"
	resp.Body.Stats = *stats
	return resp, nil
}

// JobHistoryInput is the query for refresh job history.
type JobHistoryInput struct {
	Limit int `query:"limit" default:"20" minimum:"1" maximum:"100"`
}

// JobHistoryOutput is the response body for refresh job history.
type JobHistoryOutput struct {
	Body []domain.JobRun
}

// JobHistory returns recent refresh job runs, newest first.
func (h *RefreshHandler) JobHistory(
	ctx context.Context,
	input *JobHistoryInput,
) (*JobHistoryOutput, error) {
	runs, err := h.jobs.ListJobRuns(ctx, "price_refresh", input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("fetching job history failed: " + err.Error())
	}
	if runs == nil {
		runs = []domain.JobRun{}
	}
	return &JobHistoryOutput{Body: runs}, nil
}

// RegisterRefreshRoutes registers refresh endpoints with the Huma API.
// Triggering accepts the cron secret header or an admin session.
func RegisterRefreshRoutes(api huma.API, h *RefreshHandler, authn *middleware.Authenticator) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/refresh",
		Summary:     "Trigger a price refresh pass",
		Description: "Polls the pricing service for every tracked game, records " +
			"deal history, and sends notifications for qualifying price drops.",
		Tags:        []string{"refresh"},
		Middlewares: huma.Middlewares{authn.CronOrAdmin(api)},
		Errors: []int{
			http.StatusUnauthorized, http.StatusForbidden,
			http.StatusConflict, http.StatusInternalServerError,
		},
	}, h.TriggerRefresh)

	huma.Register(api, huma.Operation{
		OperationID: "refresh-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/refresh/history",
		Summary:     "Get refresh job history",
		Tags:        []string{"refresh"},
		Middlewares: huma.Middlewares{authn.RequireAdmin(api)},
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError},
	}, h.JobHistory)
}
