package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegistrarCompraRequest records one ingredient purchase. Cantidad must be
// strictly positive and costo_unitario non-negative; both are enforced by the
// service with typed errors so the caller can correct its input.
type RegistrarCompraRequest struct {
	Cantidad      decimal.Decimal `json:"cantidad"       validate:"required"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Proveedor     *string         `json:"proveedor"`
	FacturaRef    *string         `json:"factura_ref"`
	Fecha         *time.Time      `json:"fecha"`
	Notas         *string         `json:"notas"`
}

// CompraResponse echoes the immutable ledger entry plus the updated
// ingredient it produced.
type CompraResponse struct {
	ID            string          `json:"id"`
	IngredienteID string          `json:"ingrediente_id"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Proveedor     *string         `json:"proveedor"`
	FacturaRef    *string         `json:"factura_ref"`
	Notas         *string         `json:"notas"`
	Fecha         string          `json:"fecha"`

	StockAntes   decimal.Decimal `json:"stock_antes"`
	StockDespues decimal.Decimal `json:"stock_despues"`
	CostoAntes   decimal.Decimal `json:"costo_antes"`
	CostoDespues decimal.Decimal `json:"costo_despues"`

	Ingrediente IngredienteResponse `json:"ingrediente"`
}

type CompraListResponse struct {
	Data  []CompraResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
