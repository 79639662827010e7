package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Errores de dominio del motor de costeo y producción. Los handlers los
// traducen a códigos HTTP con errors.Is / errors.As; nunca se filtran
// errores internos de GORM al cliente.
var (
	// ErrCantidadInvalida: cantidad no positiva donde se exige > 0.
	ErrCantidadInvalida = errors.New("la cantidad debe ser mayor a cero")
	// ErrCostoInvalido: costo unitario negativo.
	ErrCostoInvalido = errors.New("el costo unitario no puede ser negativo")
	// ErrEntradaInvalida: forma de la solicitud inválida (lista vacía,
	// ingrediente duplicado, unidad de medida desconocida).
	ErrEntradaInvalida = errors.New("entrada inválida")
	// ErrNoEncontrado: el ingrediente/producto/línea referenciado no existe.
	ErrNoEncontrado = errors.New("no encontrado")
	// ErrSinReceta: el producto no tiene receta configurada; costo y
	// capacidad son indefinidos; nunca se asume costo cero.
	ErrSinReceta = errors.New("el producto no tiene receta configurada")
	// ErrConflicto: la transacción fue abortada por el store (serialización)
	// y el reintento también falló. Nada quedó aplicado.
	ErrConflicto = errors.New("conflicto de concurrencia, reintente la operación")
)

// FaltanteStock describes one ingredient whose stock cannot cover the
// requested consumption.
type FaltanteStock struct {
	IngredienteID uuid.UUID       `json:"ingrediente_id"`
	Nombre        string          `json:"nombre"`
	Solicitado    decimal.Decimal `json:"solicitado"`
	Disponible    decimal.Decimal `json:"disponible"`
	Faltante      decimal.Decimal `json:"faltante"`
}

// StockInsuficienteError names EVERY offending ingredient and its shortfall,
// so the caller can reduce quantities or restock before retrying. When this
// error is returned, no mutation was applied for any ingredient.
type StockInsuficienteError struct {
	Faltantes []FaltanteStock
}

func (e *StockInsuficienteError) Error() string {
	parts := make([]string, 0, len(e.Faltantes))
	for _, f := range e.Faltantes {
		parts = append(parts, fmt.Sprintf("%s (faltan %s)", f.Nombre, f.Faltante.String()))
	}
	return "stock insuficiente: " + strings.Join(parts, ", ")
}

// FaltanteProducto describes one finished product whose stock cannot cover a
// sale item. Product stock is unit-counted, so the quantities are integers.
type FaltanteProducto struct {
	ProductoID uuid.UUID `json:"producto_id"`
	Nombre     string    `json:"nombre"`
	Solicitado int       `json:"solicitado"`
	Disponible int       `json:"disponible"`
	Faltante   int       `json:"faltante"`
}

// StockProductoInsuficienteError is the sale-side counterpart of
// StockInsuficienteError: every offending product with its shortfall, and the
// same no-partial-mutation guarantee.
type StockProductoInsuficienteError struct {
	Faltantes []FaltanteProducto
}

func (e *StockProductoInsuficienteError) Error() string {
	parts := make([]string, 0, len(e.Faltantes))
	for _, f := range e.Faltantes {
		parts = append(parts, fmt.Sprintf("%s (faltan %d)", f.Nombre, f.Faltante))
	}
	return "stock insuficiente: " + strings.Join(parts, ", ")
}
