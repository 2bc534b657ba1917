package handler

import (
	"errors"
	"net/http"

	"cotizador/internal/apierror"
	"cotizador/internal/dto"
	"cotizador/internal/infra"
	"cotizador/internal/middleware"
	"cotizador/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler { return &CatalogHandler{svc: svc} }

// Search godoc
// @Summary      Buscar en catálogo ERP
// @Description  Busca artículos por EAN en la sucursal indicada, o en la del vendedor si se omite.
// @Tags         catalogo
// @Produce      json
// @Security     BearerAuth
// @Param        ean    query    string true  "Código EAN"
// @Param        branch query    string false "Sucursal"
// @Success      200    {object} dto.CatalogSearchResponse
// @Failure      502    {object} apierror.APIError
// @Failure      503    {object} apierror.APIError
// @Router       /v1/catalog/search [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	var q dto.CatalogSearchQuery
	if !bindQuery(c, &q) {
		return
	}
	branch := q.Branch
	if branch == "" {
		branch = middleware.GetActor(c).BranchID
	}

	items, err := h.svc.Search(c.Request.Context(), q.EAN, branch)
	switch {
	case errors.Is(err, infra.ErrCircuitOpen), errors.Is(err, infra.ErrERPNotConfigured):
		c.JSON(http.StatusServiceUnavailable, apierror.New("Catálogo ERP no disponible temporalmente"))
		return
	case err != nil:
		log.Warn().Err(err).Str("ean", q.EAN).Str("branch", branch).Msg("catalog search failed")
		c.JSON(http.StatusBadGateway, apierror.New("No se pudo consultar el catálogo del ERP"))
		return
	}
	c.JSON(http.StatusOK, dto.CatalogSearchResponse{Data: items})
}
