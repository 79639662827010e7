package repository

import (
	"context"

	"blendfabrica/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProduccionFilter defines filters for listing production records.
type ProduccionFilter struct {
	ProductoID *uuid.UUID
	Page       int
	Limit      int
}

// ProduccionRepository is the append-only production ledger.
type ProduccionRepository interface {
	CreateTx(tx *gorm.DB, p *model.Produccion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produccion, error)
	List(ctx context.Context, filter ProduccionFilter) ([]model.Produccion, int64, error)
	DB() *gorm.DB
}

type produccionRepo struct{ db *gorm.DB }

func NewProduccionRepository(db *gorm.DB) ProduccionRepository { return &produccionRepo{db: db} }

func (r *produccionRepo) CreateTx(tx *gorm.DB, p *model.Produccion) error {
	return tx.Create(p).Error
}

func (r *produccionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produccion, error) {
	var p model.Produccion
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Preload("Detalles").
		Preload("Detalles.Ingrediente").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produccionRepo) List(ctx context.Context, filter ProduccionFilter) ([]model.Produccion, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Produccion{}).Preload("Producto")
	if filter.ProductoID != nil {
		q = q.Where("producto_id = ?", *filter.ProductoID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := (page - 1) * limit

	var producciones []model.Produccion
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&producciones).Error
	return producciones, total, err
}

func (r *produccionRepo) DB() *gorm.DB { return r.db }
