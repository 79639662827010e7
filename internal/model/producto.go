package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a sellable good manufactured from ingredients.
// StockActual increases only through Producciones and decreases only through
// Ventas. CostoUnitario is the unit cost of the LAST production batch — it is
// replaced on each batch, not averaged (only ingredient purchase cost is
// weight-averaged).
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
	Categoria   string          `gorm:"index"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// CostoUnitario is derived: set by ProduccionService at batch commit.
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	StockActual   int             `gorm:"not null;default:0"`
	StockMinimo   int             `gorm:"not null;default:5"`
	Activo        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Receta []RecetaLinea `gorm:"foreignKey:ProductoID"`
}

func (Producto) TableName() string { return "productos" }
