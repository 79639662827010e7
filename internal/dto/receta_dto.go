package dto

import "github.com/shopspring/decimal"

type AgregarRecetaLineaRequest struct {
	IngredienteID string          `json:"ingrediente_id" validate:"required,uuid"`
	Cantidad      decimal.Decimal `json:"cantidad"`
}

type ActualizarRecetaLineaRequest struct {
	Cantidad decimal.Decimal `json:"cantidad"`
}

type RecetaLineaResponse struct {
	ID                string          `json:"id"`
	IngredienteID     string          `json:"ingrediente_id"`
	Ingrediente       string          `json:"ingrediente"`
	UnidadMedida      string          `json:"unidad_medida"`
	CantidadPorUnidad decimal.Decimal `json:"cantidad_por_unidad"`
	CostoUnitario     decimal.Decimal `json:"costo_unitario"`
	Subtotal          decimal.Decimal `json:"subtotal"`
}

type RecetaResponse struct {
	ProductoID string                `json:"producto_id"`
	Lineas     []RecetaLineaResponse `json:"lineas"`
}
