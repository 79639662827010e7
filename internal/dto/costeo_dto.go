package dto

import "github.com/shopspring/decimal"

// CosteoResponse is the derived cost/margin view of one product.
// Only returned when the product HAS a recipe — a recipeless product is a
// distinct error state, never a silent 100 % margin.
type CosteoResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	Costo          decimal.Decimal `json:"costo"`
	PrecioVenta    decimal.Decimal `json:"precio_venta"`
	MargenUnitario decimal.Decimal `json:"margen_unitario"`
	MargenPct      decimal.Decimal `json:"margen_pct"`
}

// CapacidadResponse reports how many units can be produced right now and
// which ingredient constrains it.
type CapacidadResponse struct {
	ProductoID            string `json:"producto_id"`
	MaxUnidades           int64  `json:"max_unidades"`
	IngredienteLimitante  string `json:"ingrediente_limitante"`
	IngredienteLimitanteID string `json:"ingrediente_limitante_id"`
}

// RentabilidadItem ranks one product by margin. SinReceta products carry no
// cost figures and sort last.
type RentabilidadItem struct {
	ProductoID  string           `json:"producto_id"`
	Nombre      string           `json:"nombre"`
	PrecioVenta decimal.Decimal  `json:"precio_venta"`
	Costo       *decimal.Decimal `json:"costo,omitempty"`
	MargenPct   *decimal.Decimal `json:"margen_pct,omitempty"`
	SinReceta   bool             `json:"sin_receta"`
}
