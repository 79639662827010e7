package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unidades de medida admitidas para ingredientes.
// Enumeración cerrada: cualquier otro valor es rechazado en validación.
const (
	UnidadGramo     = "gramo"
	UnidadMililitro = "mililitro"
	UnidadUnidad    = "unidad"
)

// UnidadValida reports whether u is one of the accepted units of measure.
func UnidadValida(u string) bool {
	switch u {
	case UnidadGramo, UnidadMililitro, UnidadUnidad:
		return true
	}
	return false
}

// Ingrediente is a raw material consumed by production.
// StockActual and CostoUnitario are mutated ONLY by Compra entries (purchases)
// and Producciones (consumption), never directly from handlers.
// CostoUnitario is a running weighted average, recalculated on every purchase.
type Ingrediente struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"uniqueIndex;not null"`
	UnidadMedida string    `gorm:"not null;default:'gramo'"`
	// StockActual never goes below zero: the repository enforces guarded
	// decrements so a concurrent overdraw aborts the transaction.
	StockActual   decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	StockMinimo   decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Activo        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides GORM's default pluralization (ingredientes, not ingredientes_s).
func (Ingrediente) TableName() string { return "ingredientes" }

// EsCritico reports whether the ingredient is at or below its reorder threshold.
func (i *Ingrediente) EsCritico() bool {
	return i.StockActual.LessThanOrEqual(i.StockMinimo)
}
