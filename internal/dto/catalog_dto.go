package dto

import "cotizador/internal/model"

// CatalogSearchQuery is bound from GET /v1/catalog/search. Branch defaults to
// the seller's branch.
type CatalogSearchQuery struct {
	EAN    string `form:"ean"    validate:"required,max=32"`
	Branch string `form:"branch" validate:"max=32"`
}

type CatalogSearchResponse struct {
	Data []model.CatalogItem `json:"data"`
}
