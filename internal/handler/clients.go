package handler

import (
	"net/http"

	"cotizador/internal/apierror"
	"cotizador/internal/dto"
	"cotizador/internal/middleware"
	"cotizador/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientsHandler struct{ svc service.ClientService }

func NewClientsHandler(svc service.ClientService) *ClientsHandler { return &ClientsHandler{svc: svc} }

func clientInput(req dto.ClientRequest) service.ClientInput {
	return service.ClientInput{
		Name:          req.Name,
		Lastname:      req.Lastname,
		WhatsappPhone: req.WhatsappPhone,
		Email:         req.Email,
		RFC:           req.RFC,
		CompanyName:   req.CompanyName,
		Phone:         req.Phone,
	}
}

// List godoc
// @Summary      Listar clientes
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  model.Client
// @Router       /v1/clients [get]
func (h *ClientsHandler) List(c *gin.Context) {
	clients, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// Get godoc
// @Summary      Obtener cliente
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "ID del cliente"
// @Success      200  {object} model.Client
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clients/{id} [get]
func (h *ClientsHandler) Get(c *gin.Context) {
	client, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, apierror.New("Cliente no encontrado"))
		return
	}
	c.JSON(http.StatusOK, client)
}

// Create godoc
// @Summary      Registrar cliente
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.ClientRequest true "Datos del cliente"
// @Success      201  {object} model.Client
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/clients [post]
func (h *ClientsHandler) Create(c *gin.Context) {
	var req dto.ClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	client, err := h.svc.Create(c.Request.Context(), clientInput(req), middleware.GetActor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// Update godoc
// @Summary      Actualizar cliente
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string            true "ID del cliente"
// @Param        body body     dto.ClientRequest true "Datos del cliente"
// @Success      200  {object} model.Client
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clients/{id} [put]
func (h *ClientsHandler) Update(c *gin.Context) {
	var req dto.ClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	client, err := h.svc.Update(c.Request.Context(), c.Param("id"), clientInput(req), middleware.GetActor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, apierror.New("Cliente no encontrado"))
		return
	}
	c.JSON(http.StatusOK, client)
}

// Delete godoc
// @Summary      Eliminar cliente
// @Tags         clientes
// @Security     BearerAuth
// @Param        id   path     string true "ID del cliente"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clients/{id} [delete]
func (h *ClientsHandler) Delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, apierror.New("Cliente no encontrado"))
		return
	}
	c.Status(http.StatusNoContent)
}
