package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearIngredienteRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=120"`
	UnidadMedida string          `json:"unidad_medida" validate:"required"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"`
}

type ActualizarIngredienteRequest struct {
	Nombre       *string          `json:"nombre"        validate:"omitempty,min=2,max=120"`
	UnidadMedida *string          `json:"unidad_medida"`
	StockMinimo  *decimal.Decimal `json:"stock_minimo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type IngredienteResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	UnidadMedida  string          `json:"unidad_medida"`
	StockActual   decimal.Decimal `json:"stock_actual"`
	StockMinimo   decimal.Decimal `json:"stock_minimo"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Critico       bool            `json:"critico"`
	Activo        bool            `json:"activo"`
}

type IngredienteListResponse struct {
	Data  []IngredienteResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// AlertaStockResponse flags an ingredient or product at or below its reorder
// threshold.
type AlertaStockResponse struct {
	Tipo        string          `json:"tipo"` // "ingrediente" | "producto"
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Stock       decimal.Decimal `json:"stock"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
	Unidad      string          `json:"unidad,omitempty"`
}
