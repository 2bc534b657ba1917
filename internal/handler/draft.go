package handler

import (
	"context"
	"errors"
	"net/http"

	"cotizador/internal/apierror"
	"cotizador/internal/dto"
	"cotizador/internal/infra"
	"cotizador/internal/middleware"
	"cotizador/internal/model"
	"cotizador/internal/pricing"
	"cotizador/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RateProvider fetches the current MXN per USD rate. *infra.FXClient implements it.
type RateProvider interface {
	Latest(ctx context.Context) (*infra.FXQuote, error)
}

type DraftHandler struct {
	drafts  *service.DraftRegistry
	quotes  service.QuoteService
	clients service.ClientService
	fx      RateProvider
}

func NewDraftHandler(drafts *service.DraftRegistry, quotes service.QuoteService, clients service.ClientService, fx RateProvider) *DraftHandler {
	return &DraftHandler{drafts: drafts, quotes: quotes, clients: clients, fx: fx}
}

func (h *DraftHandler) session(c *gin.Context) *service.DraftService {
	return h.drafts.For(middleware.GetActor(c))
}

func draftResponse(s *service.DraftService) dto.DraftResponse {
	d, totals := s.SnapshotWithTotals()
	return dto.DraftResponse{
		ID:                 d.ID,
		SavedQuoteID:       d.SavedQuoteID,
		Status:             d.Status,
		Currency:           d.Currency,
		ExchangeRate:       d.ExchangeRate,
		ExchangeRateDate:   d.ExchangeRateDate,
		ExchangeRateSource: string(d.ExchangeRateSource),
		TaxRate:            d.TaxRate,
		CreatedByUserID:    d.CreatedByUserID,
		CreatedByName:      d.CreatedByName,
		BranchID:           d.BranchID,
		BranchName:         d.BranchName,
		Client:             d.Client,
		Items:              d.Items,
		Subtotal:           totals.Subtotal,
		Tax:                totals.Tax,
		Total:              totals.Total,
		DeliveryOptions:    pricing.DeliveryBands,
	}
}

// Get godoc
// @Summary      Obtener borrador
// @Description  Retorna el borrador del vendedor con partidas y totales recalculados.
// @Tags         borrador
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.DraftResponse
// @Router       /v1/draft [get]
func (h *DraftHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, draftResponse(h.session(c)))
}

// Clear godoc
// @Summary      Nuevo borrador
// @Description  Descarta el borrador actual y empieza uno vacío.
// @Tags         borrador
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.DraftResponse
// @Router       /v1/draft [delete]
func (h *DraftHandler) Clear(c *gin.Context) {
	s := h.session(c)
	s.Clear()
	c.JSON(http.StatusOK, draftResponse(s))
}

// SetCurrency godoc
// @Summary      Cambiar moneda
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.SetCurrencyRequest true "Moneda MXN o USD"
// @Success      200  {object} dto.DraftResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/draft/currency [put]
func (h *DraftHandler) SetCurrency(c *gin.Context) {
	var req dto.SetCurrencyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s := h.session(c)
	if err := s.SetCurrency(model.Currency(req.Currency)); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, draftResponse(s))
}

// SetExchangeRate godoc
// @Summary      Capturar tipo de cambio
// @Description  Registra un tipo de cambio manual con fecha de hoy. Valores no positivos usan el tipo de cambio por defecto.
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.SetExchangeRateRequest true "MXN por USD"
// @Success      200  {object} dto.DraftResponse
// @Router       /v1/draft/exchange-rate [put]
func (h *DraftHandler) SetExchangeRate(c *gin.Context) {
	var req dto.SetExchangeRateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s := h.session(c)
	s.SetExchangeRate(req.ExchangeRate)
	c.JSON(http.StatusOK, draftResponse(s))
}

// RefreshExchangeRate godoc
// @Summary      Actualizar tipo de cambio
// @Description  Consulta el proveedor de tipo de cambio y lo aplica al borrador.
// @Tags         borrador
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.DraftResponse
// @Failure      502  {object} apierror.APIError
// @Failure      503  {object} apierror.APIError
// @Router       /v1/draft/exchange-rate/refresh [post]
func (h *DraftHandler) RefreshExchangeRate(c *gin.Context) {
	if h.fx == nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("Proveedor de tipo de cambio no configurado"))
		return
	}
	q, err := h.fx.Latest(c.Request.Context())
	switch {
	case errors.Is(err, infra.ErrFXNotConfigured):
		c.JSON(http.StatusServiceUnavailable, apierror.New("Proveedor de tipo de cambio no configurado"))
		return
	case err != nil:
		log.Warn().Err(err).Msg("exchange rate refresh failed")
		c.JSON(http.StatusBadGateway, apierror.New("No se pudo obtener el tipo de cambio"))
		return
	}
	s := h.session(c)
	s.ApplyProvidedRate(q.Rate, q.Date)
	c.JSON(http.StatusOK, draftResponse(s))
}

// SetClient godoc
// @Summary      Asignar cliente
// @Description  Asigna un cliente del registro al borrador. Un client_id vacío lo desasigna.
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.SetClientRequest true "Cliente"
// @Success      200  {object} dto.DraftResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/draft/client [put]
func (h *DraftHandler) SetClient(c *gin.Context) {
	var req dto.SetClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s := h.session(c)
	if req.ClientID == "" {
		s.SetClient(nil)
		c.JSON(http.StatusOK, draftResponse(s))
		return
	}
	client, err := h.clients.GetByID(c.Request.Context(), req.ClientID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, apierror.New("Cliente no encontrado"))
		return
	}
	s.SetClient(client)
	c.JSON(http.StatusOK, draftResponse(s))
}

// AddLine godoc
// @Summary      Agregar partida
// @Description  Agrega un artículo del catálogo con cantidad 1 y el margen por defecto.
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.AddLineRequest true "Artículo del catálogo"
// @Success      201  {object} dto.DraftResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/draft/lines [post]
func (h *DraftHandler) AddLine(c *gin.Context) {
	var req dto.AddLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s := h.session(c)
	s.AddLine(model.CatalogItem{
		Code:         req.Code,
		EAN:          req.EAN,
		Description:  req.Description,
		Unit:         req.Unit,
		CostAmount:   req.CostAmount,
		CostCurrency: model.Currency(req.CostCurrency),
		Stock:        req.Stock,
	})
	c.JSON(http.StatusCreated, draftResponse(s))
}

// UpdateLine godoc
// @Summary      Editar partida
// @Description  Aplica cantidad, margen, precio unitario y tiempo de entrega, en ese orden, cuando vienen en el cuerpo.
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        lineId path     string                 true "ID de la partida"
// @Param        body   body     dto.UpdateLineRequest  true "Campos a modificar"
// @Success      200    {object} dto.DraftResponse
// @Failure      400    {object} apierror.APIError
// @Failure      404    {object} apierror.APIError
// @Router       /v1/draft/lines/{lineId} [patch]
func (h *DraftHandler) UpdateLine(c *gin.Context) {
	var req dto.UpdateLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Quantity == nil && req.MarginPercent == nil && req.UnitPrice == nil && req.DeliveryTime == nil {
		c.JSON(http.StatusBadRequest, apierror.New("Sin cambios para aplicar"))
		return
	}

	s := h.session(c)
	lineID := c.Param("lineId")
	found := true
	if req.Quantity != nil {
		found = found && s.SetQuantity(lineID, *req.Quantity)
	}
	if req.MarginPercent != nil {
		found = found && s.SetMargin(lineID, *req.MarginPercent)
	}
	if req.UnitPrice != nil {
		found = found && s.SetUnitPrice(lineID, *req.UnitPrice)
	}
	if req.DeliveryTime != nil {
		found = found && s.SetDeliveryTime(lineID, *req.DeliveryTime)
	}
	if !found {
		c.JSON(http.StatusNotFound, apierror.New("Partida no encontrada"))
		return
	}
	c.JSON(http.StatusOK, draftResponse(s))
}

// RemoveLine godoc
// @Summary      Eliminar partida
// @Tags         borrador
// @Produce      json
// @Security     BearerAuth
// @Param        lineId path     string true "ID de la partida"
// @Success      200    {object} dto.DraftResponse
// @Failure      404    {object} apierror.APIError
// @Router       /v1/draft/lines/{lineId} [delete]
func (h *DraftHandler) RemoveLine(c *gin.Context) {
	s := h.session(c)
	if !s.RemoveLine(c.Param("lineId")) {
		c.JSON(http.StatusNotFound, apierror.New("Partida no encontrada"))
		return
	}
	c.JSON(http.StatusOK, draftResponse(s))
}

// ApplyExtraction godoc
// @Summary      Cargar partidas extraídas
// @Description  Reemplaza las partidas del borrador con las leídas del documento del cliente. Quedan sin costo ni margen.
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.ExtractionRequest true "Partidas extraídas"
// @Success      200  {object} dto.DraftResponse
// @Router       /v1/draft/extraction [post]
func (h *DraftHandler) ApplyExtraction(c *gin.Context) {
	var req dto.ExtractionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s := h.session(c)
	s.SetItemsFromExtraction(req.Items)
	c.JSON(http.StatusOK, draftResponse(s))
}

// Save godoc
// @Summary      Guardar cotización
// @Description  Congela el borrador como cotización y reinicia el borrador conservando vendedor y sucursal. Un borrador cargado con /v1/quotes/{id}/edit actualiza esa cotización.
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.SaveDraftRequest true "Estado destino"
// @Success      201  {object} dto.SaveDraftResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/draft/save [post]
func (h *DraftHandler) Save(c *gin.Context) {
	var req dto.SaveDraftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	quoteID, err := h.quotes.Save(c.Request.Context(), h.session(c), model.QuoteStatus(req.Status))
	if err != nil {
		_ = c.Error(err)
		return
	}
	q := model.SavedQuote{QuoteID: quoteID}
	c.JSON(http.StatusCreated, dto.SaveDraftResponse{QuoteID: quoteID, QuoteNumber: q.QuoteNumber()})
}

// EditQuote godoc
// @Summary      Editar cotización guardada
// @Description  Carga una cotización guardada como borrador del vendedor, recalculando precios con su moneda y tipo de cambio.
// @Tags         borrador
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "ID de la cotización"
// @Success      200  {object} dto.DraftResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/quotes/{id}/edit [post]
func (h *DraftHandler) EditQuote(c *gin.Context) {
	d, err := h.quotes.LoadForEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, apierror.New("No se encontró la cotización."))
		return
	}
	s := h.session(c)
	s.Replace(*d)
	c.JSON(http.StatusOK, draftResponse(s))
}
