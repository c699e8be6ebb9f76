// Package http exposes the order intake API over echo: step advancement,
// external imports, and order summaries.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/arvni/provider-panel-sub000/internal/core/application/usecases/commands"
	"github.com/arvni/provider-panel-sub000/internal/core/application/usecases/queries"
	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	advanceStepHandler commands.AdvanceOrderStepCommandHandler
	importOrderHandler commands.ImportOrderCommandHandler

	// Query handlers
	getOrderSummaryHandler queries.GetOrderSummaryQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	advanceStepHandler commands.AdvanceOrderStepCommandHandler,
	importOrderHandler commands.ImportOrderCommandHandler,
	getOrderSummaryHandler queries.GetOrderSummaryQueryHandler,
) *Server {
	return &Server{
		advanceStepHandler:     advanceStepHandler,
		importOrderHandler:     importOrderHandler,
		getOrderSummaryHandler: getOrderSummaryHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.PUT("/api/v1/orders/:id/steps/:step", s.AdvanceOrderStep)
	e.POST("/api/v1/orders/import", s.ImportOrder)
	e.GET("/api/v1/orders/:id", s.GetOrderSummary)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// advanceStepRequest carries the actor and the step payload union. Exactly
// one payload variant must be set, matching the :step path parameter.
type advanceStepRequest struct {
	ActorID uint `json:"actor_id"`
	commands.StepPayload
}

// AdvanceOrderStep handles PUT /api/v1/orders/:id/steps/:step - applies one
// step-specific mutation and advances the order's step pointer.
func (s *Server) AdvanceOrderStep(ctx echo.Context) error {
	orderID, err := parseUintParam(ctx, "id")
	if err != nil {
		return ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: "invalid order id",
		})
	}

	step, err := order.ParseStep(ctx.Param("step"))
	if err != nil {
		return ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}

	var req advanceStepRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewAdvanceOrderStepCommand(orderID, step, req.ActorID, req.StepPayload)
	if err != nil {
		return s.mapError(ctx, err)
	}

	updated, err := s.advanceStepHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"id":     updated.ID,
		"step":   updated.Step.String(),
		"status": updated.Status.String(),
	})
}

// ImportOrder handles POST /api/v1/orders/import - reconciles a full order
// graph pushed by the upstream laboratory system.
func (s *Server) ImportOrder(ctx echo.Context) error {
	var payload commands.ImportPayload
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewImportOrderCommand(payload)
	if err != nil {
		return s.mapError(ctx, err)
	}

	result, err := s.importOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, result)
}

// GetOrderSummary handles GET /api/v1/orders/:id.
func (s *Server) GetOrderSummary(ctx echo.Context) error {
	orderID, err := parseUintParam(ctx, "id")
	if err != nil {
		return ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: "invalid order id",
		})
	}

	query, err := queries.NewGetOrderSummaryQuery(orderID)
	if err != nil {
		return s.mapError(ctx, err)
	}

	summary, err := s.getOrderSummaryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, summary)
}

// mapError translates domain errors into HTTP status codes: absent objects
// read as 404, validation failures as 422, conflicts as 409, everything else
// as 500 without leaking internals.
func (s *Server) mapError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		return ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrConflict):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "internal error",
		})
	}
}

func parseUintParam(ctx echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
