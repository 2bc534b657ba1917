package handler

import (
	"net/http"
	"time"

	"cotizador/internal/apierror"
	"cotizador/internal/dto"
	"cotizador/internal/model"
	"cotizador/internal/service"

	"github.com/gin-gonic/gin"
)

type QuotesHandler struct{ svc service.QuoteService }

func NewQuotesHandler(svc service.QuoteService) *QuotesHandler { return &QuotesHandler{svc: svc} }

func allowedActions(status model.QuoteStatus) []string {
	actions := service.AllowedActions(status)
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a)
	}
	return out
}

func toListItem(q *model.SavedQuote) dto.QuoteListItem {
	item := dto.QuoteListItem{
		QuoteID:        q.QuoteID,
		QuoteNumber:    q.QuoteNumber(),
		Status:         q.Status,
		ERPExportState: q.ERPExportState,
		CreatedByName:  q.CreatedByName,
		Currency:       q.Currency,
		Total:          q.Total,
		CreatedAt:      q.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      q.UpdatedAt.Format(time.RFC3339),
		AllowedActions: allowedActions(q.Status),
	}
	if q.Client != nil {
		item.ClientName = q.Client.FullName()
		item.CompanyName = q.Client.CompanyName
	}
	return item
}

// actionResponse writes the outcome of a status action: 404 when the quote is
// missing, 409 when its status refuses the action.
func actionResponse(c *gin.Context, res service.ActionResult) {
	body := dto.ActionResponse{OK: res.OK, Message: res.Message}
	switch {
	case res.NotFound:
		c.JSON(http.StatusNotFound, body)
	case !res.OK:
		c.JSON(http.StatusConflict, body)
	default:
		c.JSON(http.StatusOK, body)
	}
}

// List godoc
// @Summary      Listar cotizaciones
// @Description  Retorna las cotizaciones guardadas, la más reciente primero.
// @Tags         cotizaciones
// @Produce      json
// @Security     BearerAuth
// @Param        page  query    int false "Página (desde 1)"
// @Param        limit query    int false "Tamaño de página (máx 100)"
// @Success      200   {object} dto.QuoteListResponse
// @Router       /v1/quotes [get]
func (h *QuotesHandler) List(c *gin.Context) {
	var filter dto.QuoteFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.svc.List(c.Request.Context(), filter.Page, filter.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	items := make([]dto.QuoteListItem, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toListItem(&page.Items[i]))
	}
	c.JSON(http.StatusOK, dto.QuoteListResponse{Data: items, Total: page.Total, Page: page.Page, Limit: page.PageSize})
}

// Get godoc
// @Summary      Obtener cotización
// @Tags         cotizaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "ID de la cotización (COT-...)"
// @Success      200  {object} dto.QuoteResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/quotes/{id} [get]
func (h *QuotesHandler) Get(c *gin.Context) {
	q, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if q == nil {
		c.JSON(http.StatusNotFound, apierror.New("No se encontró la cotización."))
		return
	}
	c.JSON(http.StatusOK, dto.QuoteResponse{
		SavedQuote:     *q,
		QuoteNumber:    q.QuoteNumber(),
		AllowedActions: allowedActions(q.Status),
	})
}

// UpdateStatus godoc
// @Summary      Cambiar estado
// @Description  Marca la cotización como cotizada o la cancela según la máquina de estados.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                  true "ID de la cotización"
// @Param        body body     dto.UpdateStatusRequest true "Nuevo estado"
// @Success      200  {object} dto.ActionResponse
// @Failure      404  {object} dto.ActionResponse
// @Failure      409  {object} dto.ActionResponse
// @Router       /v1/quotes/{id}/status [patch]
func (h *QuotesHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	var (
		res service.ActionResult
		err error
	)
	if model.QuoteStatus(req.Status) == model.StatusQuoted {
		res, err = h.svc.MarkQuoted(ctx, id)
	} else {
		res, err = h.svc.Cancel(ctx, id)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	actionResponse(c, res)
}

// GenerateOrder godoc
// @Summary      Generar pedido
// @Description  Envía una cotización cotizada al ERP. El estado se mantiene en QUOTED.
// @Tags         cotizaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "ID de la cotización"
// @Success      200  {object} dto.ActionResponse
// @Failure      404  {object} dto.ActionResponse
// @Failure      409  {object} dto.ActionResponse
// @Router       /v1/quotes/{id}/order [post]
func (h *QuotesHandler) GenerateOrder(c *gin.Context) {
	res, err := h.svc.GenerateOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	actionResponse(c, res)
}

// ListOrders godoc
// @Summary      Bitácora de pedidos
// @Description  Solicitudes de pedido enviadas al ERP, la más reciente primero.
// @Tags         cotizaciones
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.OrderRequestResponse
// @Router       /v1/orders [get]
func (h *QuotesHandler) ListOrders(c *gin.Context) {
	orders, err := h.svc.OrderRequests(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	out := make([]dto.OrderRequestResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.OrderRequestResponse{QuoteID: o.QuoteID, RequestedAt: o.RequestedAt.Format(time.RFC3339)})
	}
	c.JSON(http.StatusOK, out)
}
