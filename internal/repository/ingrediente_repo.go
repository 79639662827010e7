package repository

import (
	"context"

	"blendfabrica/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IngredienteFilter defines filters for listing ingredients.
type IngredienteFilter struct {
	Nombre string `form:"nombre"`
	Activo string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=50"`
}

// IngredienteRepository defines the data access contract for ingredients.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type IngredienteRepository interface {
	Create(ctx context.Context, i *model.Ingrediente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ingrediente, error)
	List(ctx context.Context, filter IngredienteFilter) ([]model.Ingrediente, int64, error)
	ListarCriticos(ctx context.Context) ([]model.Ingrediente, error)
	Update(ctx context.Context, i *model.Ingrediente) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Ingrediente, error)

	// ActualizarStockCostoTx sets stock and weighted-average cost together.
	// They must never be updated separately, or margin figures desync.
	ActualizarStockCostoTx(tx *gorm.DB, id uuid.UUID, stock, costo decimal.Decimal) error

	// DescontarStockTx decrements stock with a non-negativity guard: the
	// UPDATE only matches when stock_actual >= cantidad, so a concurrent
	// overdraw yields zero affected rows and the caller aborts the tx.
	DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type ingredienteRepo struct{ db *gorm.DB }

func NewIngredienteRepository(db *gorm.DB) IngredienteRepository { return &ingredienteRepo{db: db} }

func (r *ingredienteRepo) Create(ctx context.Context, i *model.Ingrediente) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *ingredienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ingrediente, error) {
	var i model.Ingrediente
	err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *ingredienteRepo) List(ctx context.Context, filter IngredienteFilter) ([]model.Ingrediente, int64, error) {
	var ingredientes []model.Ingrediente
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Ingrediente{})

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit
	err := q.Order("nombre ASC").Limit(limit).Offset(offset).Find(&ingredientes).Error
	return ingredientes, total, err
}

func (r *ingredienteRepo) ListarCriticos(ctx context.Context) ([]model.Ingrediente, error) {
	var ingredientes []model.Ingrediente
	err := r.db.WithContext(ctx).
		Where("activo = true AND stock_actual <= stock_minimo").
		Order("nombre ASC").
		Find(&ingredientes).Error
	return ingredientes, err
}

func (r *ingredienteRepo) Update(ctx context.Context, i *model.Ingrediente) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *ingredienteRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Ingrediente{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *ingredienteRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Ingrediente{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *ingredienteRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Ingrediente, error) {
	var i model.Ingrediente
	err := tx.First(&i, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *ingredienteRepo) ActualizarStockCostoTx(tx *gorm.DB, id uuid.UUID, stock, costo decimal.Decimal) error {
	return tx.Model(&model.Ingrediente{}).Where("id = ?", id).Updates(map[string]interface{}{
		"stock_actual":   stock,
		"costo_unitario": costo,
	}).Error
}

func (r *ingredienteRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (int64, error) {
	res := tx.Model(&model.Ingrediente{}).
		Where("id = ? AND stock_actual >= ?", id, cantidad).
		Update("stock_actual", gorm.Expr("stock_actual - ?", cantidad))
	return res.RowsAffected, res.Error
}

func (r *ingredienteRepo) DB() *gorm.DB { return r.db }
