package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra registra una compra de ingrediente al proveedor.
// Los registros son inmutables — nunca se eliminan ni modifican.
// Cada compra recalcula el costo promedio ponderado del ingrediente; los
// campos Antes/Despues dejan constancia auditable del efecto exacto.
type Compra struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IngredienteID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null"` // > 0
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"` // >= 0, precio pagado por unidad
	Proveedor     *string
	FacturaRef    *string
	Notas         *string
	Fecha         time.Time `gorm:"not null;index"`

	StockAntes   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockDespues decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CostoAntes   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostoDespues decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	CreatedAt time.Time

	Ingrediente *Ingrediente `gorm:"foreignKey:IngredienteID"`
}

func (Compra) TableName() string { return "compras" }
