package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecetaLinea declares how much of one ingredient is needed to produce one
// unit of a product. At most one line may exist per (producto, ingrediente)
// pair — enforced by the composite unique index.
type RecetaLinea struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_producto_ingrediente"`
	IngredienteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_producto_ingrediente"`
	// CantidadPorUnidad is strictly positive, in the ingredient's unit.
	CantidadPorUnidad decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Producto    *Producto    `gorm:"foreignKey:ProductoID"`
	Ingrediente *Ingrediente `gorm:"foreignKey:IngredienteID"`
}

func (RecetaLinea) TableName() string { return "receta_lineas" }
