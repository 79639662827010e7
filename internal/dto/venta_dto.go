package dto

import "github.com/shopspring/decimal"

type VentaItemRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,gt=0"`
}

type RegistrarVentaRequest struct {
	Items []VentaItemRequest `json:"items" validate:"required,min=1,dive"`
	Nota  string             `json:"nota"`
}

type VentaItemResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	MargenUnitario decimal.Decimal `json:"margen_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID        string              `json:"id"`
	Total     decimal.Decimal     `json:"total"`
	Nota      string              `json:"nota,omitempty"`
	Items     []VentaItemResponse `json:"items"`
	CreatedAt string              `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
