package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produccion registra un lote fabricado: qué producto, cuántas unidades y el
// costo unitario derivado de los ingredientes consumidos. Registros
// inmutables; los detalles conservan el costo de cada ingrediente AL MOMENTO
// de producir, independiente de compras posteriores.
type Produccion struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad      int             `gorm:"not null"` // unidades producidas, > 0
	CostoTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"` // CostoTotal / Cantidad
	Nota          string
	CreatedAt     time.Time

	Producto *Producto          `gorm:"foreignKey:ProductoID"`
	Detalles []ProduccionDetalle `gorm:"foreignKey:ProduccionID"`
}

func (Produccion) TableName() string { return "producciones" }

// ProduccionDetalle is one consumed-ingredient line of a production batch.
type ProduccionDetalle struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProduccionID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredienteID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null"` // consumida, > 0
	// CostoUnitario snapshot: el promedio ponderado vigente al producir.
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Ingrediente *Ingrediente `gorm:"foreignKey:IngredienteID"`
}

func (ProduccionDetalle) TableName() string { return "produccion_detalles" }
