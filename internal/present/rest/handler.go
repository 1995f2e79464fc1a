package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/lienworks/lienos/internal/domain"
	"github.com/lienworks/lienos/internal/present/rest/middleware"
	"github.com/lienworks/lienos/internal/present/rest/presenter"
	"github.com/lienworks/lienos/internal/service"
	"github.com/lienworks/lienos/internal/usecase"
)

type Handler struct {
	tracker    *usecase.TrackerUsecase
	valuation  *usecase.ValuationUsecase
	deadline   *usecase.DeadlineUsecase
	payment    *usecase.PaymentUsecase
	dispatcher *usecase.Dispatcher
	documents  *service.DocumentService
	signal     *service.SignalService
}

func NewHandler(
	tracker *usecase.TrackerUsecase,
	valuation *usecase.ValuationUsecase,
	deadline *usecase.DeadlineUsecase,
	payment *usecase.PaymentUsecase,
	dispatcher *usecase.Dispatcher,
	documents *service.DocumentService,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		tracker:    tracker,
		valuation:  valuation,
		deadline:   deadline,
		payment:    payment,
		dispatcher: dispatcher,
		documents:  documents,
		signal:     signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	tenant := middleware.NewTenantMiddleware()
	api := e.Group("/api/v1", tenant.IdentifyTenant)

	api.POST("/assets/:type", h.handleCreateAsset)
	api.GET("/assets/:type", h.handleListAssets)
	api.GET("/assets/:type/:id", h.handleGetAsset)
	api.PATCH("/assets/:type/:id", h.handleUpdateAsset)
	api.DELETE("/assets/:type/:id", h.handleDeleteAsset)

	api.GET("/valuations/:id", h.handleValuation)
	api.POST("/tasks", h.handleTask)

	api.GET("/deadlines", h.handleListDeadlines)
	api.POST("/deadlines/check", h.handleCheckDeadlines)
	api.POST("/deadlines/:id/complete", h.handleCompleteDeadline)

	api.POST("/payments", h.handleRecordPayment)
	api.GET("/documents/assets/:id", h.handleAssetDocument)

	e.GET("/realtime", h.handleRealtime, tenant.IdentifyTenant)
}

// fail maps domain errors onto HTTP responses. Absence and cross-tenant
// access share one not-found response.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return presenter.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUnknownTask):
		return presenter.BadRequest(c, err)
	}
	return presenter.InternalError(c, err)
}

func assetTypeParam(c echo.Context) (domain.AssetType, bool) {
	return domain.ParseAssetType(c.Param("type"))
}

func (h *Handler) handleCreateAsset(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	assetType, ok := assetTypeParam(c)
	if !ok {
		return presenter.BadRequestMessage(c, "unknown asset type")
	}

	var params domain.Record
	if err := c.Bind(&params); err != nil {
		return presenter.BadRequest(c, err)
	}

	created, err := h.tracker.Create(ctx, tenantID, assetType, params)
	if err != nil {
		return fail(c, err)
	}
	return presenter.OK(c, created)
}

func (h *Handler) handleListAssets(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	assetType, ok := assetTypeParam(c)
	if !ok {
		return presenter.BadRequestMessage(c, "unknown asset type")
	}

	q := domain.Query{OrderBy: c.QueryParam("order_by")}
	if status := c.QueryParam("status"); status != "" {
		q = q.Where("status", domain.OpEq, status)
	}
	if county := c.QueryParam("county"); county != "" {
		q = q.Where("county", domain.OpEq, county)
	}

	limit := 100
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limitInt, err := strconv.Atoi(limitStr)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid limit parameter")
		}
		limit = limitInt
	}
	q.Limit = limit

	records, err := h.tracker.List(ctx, tenantID, assetType, q)
	if err != nil {
		return fail(c, err)
	}
	return presenter.OK(c, echo.Map{"assets": records, "count": len(records)})
}

func (h *Handler) handleGetAsset(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	assetType, ok := assetTypeParam(c)
	if !ok {
		return presenter.BadRequestMessage(c, "unknown asset type")
	}

	record, err := h.tracker.Get(ctx, tenantID, assetType, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return presenter.OK(c, record)
}

func (h *Handler) handleUpdateAsset(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	assetType, ok := assetTypeParam(c)
	if !ok {
		return presenter.BadRequestMessage(c, "unknown asset type")
	}

	var updates domain.Record
	if err := c.Bind(&updates); err != nil {
		return presenter.BadRequest(c, err)
	}

	record, err := h.tracker.Update(ctx, tenantID, assetType, c.Param("id"), updates)
	if err != nil {
		return fail(c, err)
	}
	return presenter.OK(c, record)
}

func (h *Handler) handleDeleteAsset(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	assetType, ok := assetTypeParam(c)
	if !ok {
		return presenter.BadRequestMessage(c, "unknown asset type")
	}

	hard := c.QueryParam("hard") == "true"
	deleted, err := h.tracker.Delete(ctx, tenantID, assetType, c.Param("id"), hard)
	if err != nil {
		return fail(c, err)
	}
	if !deleted {
		return presenter.NotFound(c, "asset not found")
	}
	deleteType := "soft"
	if hard {
		deleteType = "hard"
	}
	return presenter.OK(c, echo.Map{"deleted": true, "delete_type": deleteType})
}

func (h *Handler) handleValuation(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	valuation, err := h.valuation.CalculateInterest(ctx, tenantID, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return presenter.OK(c, valuation.Fields())
}

type taskRequest struct {
	Task       string        `json:"task"`
	AssetIDs   []string      `json:"asset_ids"`
	Parameters domain.Record `json:"parameters"`
}

func (h *Handler) handleTask(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	result, err := h.dispatcher.Execute(ctx, tenantID, req.Task, req.AssetIDs, req.Parameters)
	if err != nil {
		return fail(c, err)
	}
	return presenter.OK(c, result)
}

func (h *Handler) handleListDeadlines(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	includeCompleted := c.QueryParam("include_completed") == "true"
	deadlines, err := h.deadline.List(ctx, tenantID, includeCompleted)
	if err != nil {
		return fail(c, err)
	}

	records := make([]domain.Record, 0, len(deadlines))
	for _, d := range deadlines {
		records = append(records, d.ToRecord())
	}
	return presenter.OK(c, echo.Map{"deadlines": records, "count": len(records)})
}

func (h *Handler) handleCheckDeadlines(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	result, err := h.deadline.Check(ctx, tenantID)
	if err != nil {
		return fail(c, err)
	}
	return presenter.OK(c, result)
}

func (h *Handler) handleCompleteDeadline(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	done, err := h.deadline.Complete(ctx, tenantID, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if !done {
		return presenter.NotFound(c, "deadline not found")
	}
	return presenter.OK(c, echo.Map{"completed": true})
}

type paymentRequest struct {
	AssetID     string  `json:"asset_id"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
}

func (h *Handler) handleRecordPayment(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.AssetID == "" {
		return presenter.BadRequestMessage(c, "asset_id is required")
	}

	input := usecase.PaymentInput{Amount: req.Amount}
	if req.PaymentDate != "" {
		date, ok := domain.Record{"payment_date": req.PaymentDate}.Date("payment_date")
		if !ok {
			return presenter.BadRequestMessage(c, "invalid payment_date parameter")
		}
		input.PaymentDate = &date
	}

	result, err := h.payment.Record(ctx, tenantID, req.AssetID, input)
	if err != nil {
		return fail(c, err)
	}
	return presenter.OK(c, result)
}

func (h *Handler) handleAssetDocument(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	html, err := h.documents.AssetReport(ctx, tenantID, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.HTML(http.StatusOK, html)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleRealtime(c echo.Context) error {
	if h.signal == nil {
		return presenter.BadRequestMessage(c, "realtime is not enabled")
	}

	ctx := c.Request().Context()
	tenantID := middleware.TenantFromContext(ctx)

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	events := h.signal.Subscribe(ctx, tenantID)

	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(event); err != nil {
				return nil
			}
		}
	}
}
