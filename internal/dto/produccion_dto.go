package dto

import "github.com/shopspring/decimal"

// ConsumoRequest is one (ingrediente, cantidad consumida) entry of a batch.
type ConsumoRequest struct {
	IngredienteID string          `json:"ingrediente_id" validate:"required,uuid"`
	Cantidad      decimal.Decimal `json:"cantidad"`
}

// ProducirRequest describes a production batch. When Consumos is empty the
// service derives it from the product's recipe (cantidad_por_unidad × cantidad).
type ProducirRequest struct {
	ProductoID string           `json:"producto_id" validate:"required,uuid"`
	Cantidad   int              `json:"cantidad"    validate:"required"`
	Consumos   []ConsumoRequest `json:"consumos"`
	Nota       string           `json:"nota"`
}

type ProduccionDetalleResponse struct {
	IngredienteID string          `json:"ingrediente_id"`
	Ingrediente   string          `json:"ingrediente,omitempty"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type ProduccionResponse struct {
	ID            string                      `json:"id"`
	ProductoID    string                      `json:"producto_id"`
	Producto      string                      `json:"producto,omitempty"`
	Cantidad      int                         `json:"cantidad"`
	CostoTotal    decimal.Decimal             `json:"costo_total"`
	CostoUnitario decimal.Decimal             `json:"costo_unitario"`
	Nota          string                      `json:"nota,omitempty"`
	Detalles      []ProduccionDetalleResponse `json:"detalles"`
	CreatedAt     string                      `json:"created_at"`
}

type ProduccionListResponse struct {
	Data  []ProduccionResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
