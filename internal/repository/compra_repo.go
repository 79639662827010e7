package repository

import (
	"context"

	"blendfabrica/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompraFilter defines filters for listing purchase records.
type CompraFilter struct {
	IngredienteID *uuid.UUID
	Page          int
	Limit         int
}

// CompraRepository is the append-only purchase ledger. There is no Update or
// Delete: purchase records are immutable.
type CompraRepository interface {
	CreateTx(tx *gorm.DB, c *model.Compra) error
	List(ctx context.Context, filter CompraFilter) ([]model.Compra, int64, error)
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) CreateTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Create(c).Error
}

func (r *compraRepo) List(ctx context.Context, filter CompraFilter) ([]model.Compra, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Compra{}).Preload("Ingrediente")
	if filter.IngredienteID != nil {
		q = q.Where("ingrediente_id = ?", *filter.IngredienteID)
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
		limit = 100
	}
	offset := (page - 1) * limit

	var compras []model.Compra
	err := q.Order("fecha DESC, created_at DESC").Offset(offset).Limit(limit).Find(&compras).Error
	return compras, total, err
}

func (r *compraRepo) DB() *gorm.DB { return r.db }
