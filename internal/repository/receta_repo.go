package repository

import (
	"context"

	"blendfabrica/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecetaRepository manages recipe lines (producto × ingrediente).
type RecetaRepository interface {
	CrearLinea(ctx context.Context, l *model.RecetaLinea) error
	FindLineaByID(ctx context.Context, id uuid.UUID) (*model.RecetaLinea, error)
	FindLinea(ctx context.Context, productoID, ingredienteID uuid.UUID) (*model.RecetaLinea, error)

	// ListarPorProducto returns the recipe ordered by ingrediente_id ASC.
	// The ordering is load-bearing: the capacity calculation breaks ties by
	// taking the first minimum in this order.
	ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.RecetaLinea, error)

	// ProductosQueUsan returns the ids of products whose recipes include the
	// ingredient — used for cache invalidation after a purchase.
	ProductosQueUsan(ctx context.Context, ingredienteID uuid.UUID) ([]uuid.UUID, error)

	ActualizarCantidad(ctx context.Context, id uuid.UUID, cantidad decimal.Decimal) error
	EliminarLinea(ctx context.Context, id uuid.UUID) error
}

type recetaRepo struct{ db *gorm.DB }

func NewRecetaRepository(db *gorm.DB) RecetaRepository { return &recetaRepo{db: db} }

func (r *recetaRepo) CrearLinea(ctx context.Context, l *model.RecetaLinea) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *recetaRepo) FindLineaByID(ctx context.Context, id uuid.UUID) (*model.RecetaLinea, error) {
	var l model.RecetaLinea
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *recetaRepo) FindLinea(ctx context.Context, productoID, ingredienteID uuid.UUID) (*model.RecetaLinea, error) {
	var l model.RecetaLinea
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND ingrediente_id = ?", productoID, ingredienteID).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *recetaRepo) ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.RecetaLinea, error) {
	var lineas []model.RecetaLinea
	err := r.db.WithContext(ctx).
		Preload("Ingrediente").
		Where("producto_id = ?", productoID).
		Order("ingrediente_id ASC").
		Find(&lineas).Error
	return lineas, err
}

func (r *recetaRepo) ProductosQueUsan(ctx context.Context, ingredienteID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.RecetaLinea{}).
		Where("ingrediente_id = ?", ingredienteID).
		Distinct().
		Pluck("producto_id", &ids).Error
	return ids, err
}

func (r *recetaRepo) ActualizarCantidad(ctx context.Context, id uuid.UUID, cantidad decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.RecetaLinea{}).
		Where("id = ?", id).
		Update("cantidad_por_unidad", cantidad).Error
}

func (r *recetaRepo) EliminarLinea(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.RecetaLinea{}, "id = ?", id).Error
}
