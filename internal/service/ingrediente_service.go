package service

import (
	"context"
	"errors"
	"fmt"

	"blendfabrica/internal/dto"
	"blendfabrica/internal/model"
	"blendfabrica/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IngredienteService defines the business logic contract for ingredients.
// Stock and cost are deliberately absent from create/update: they are owned
// by the purchase ledger and the production processor.
type IngredienteService interface {
	Crear(ctx context.Context, req dto.CrearIngredienteRequest) (*dto.IngredienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.IngredienteResponse, error)
	Listar(ctx context.Context, filter repository.IngredienteFilter) (*dto.IngredienteListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarIngredienteRequest) (*dto.IngredienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
}

type ingredienteService struct {
	repo         repository.IngredienteRepository
	productoRepo repository.ProductoRepository
}

func NewIngredienteService(repo repository.IngredienteRepository, productoRepo repository.ProductoRepository) IngredienteService {
	return &ingredienteService{repo: repo, productoRepo: productoRepo}
}

// mapIngrediente converts a model to a DTO response.
func mapIngrediente(i *model.Ingrediente) dto.IngredienteResponse {
	return dto.IngredienteResponse{
		ID:            i.ID.String(),
		Nombre:        i.Nombre,
		UnidadMedida:  i.UnidadMedida,
		StockActual:   i.StockActual,
		StockMinimo:   i.StockMinimo,
		CostoUnitario: i.CostoUnitario,
		Critico:       i.EsCritico(),
		Activo:        i.Activo,
	}
}

func (s *ingredienteService) Crear(ctx context.Context, req dto.CrearIngredienteRequest) (*dto.IngredienteResponse, error) {
	if !model.UnidadValida(req.UnidadMedida) {
		return nil, fmt.Errorf("%w: unidad de medida %q desconocida", ErrEntradaInvalida, req.UnidadMedida)
	}
	if req.StockMinimo.IsNegative() {
		return nil, fmt.Errorf("%w: stock mínimo negativo", ErrEntradaInvalida)
	}

	i := &model.Ingrediente{
		Nombre:        req.Nombre,
		UnidadMedida:  req.UnidadMedida,
		StockActual:   decimal.Zero,
		StockMinimo:   req.StockMinimo,
		CostoUnitario: decimal.Zero,
		Activo:        true,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	resp := mapIngrediente(i)
	return &resp, nil
}

func (s *ingredienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.IngredienteResponse, error) {
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingrediente %s: %w", id, ErrNoEncontrado)
		}
		return nil, err
	}
	resp := mapIngrediente(i)
	return &resp, nil
}

func (s *ingredienteService) Listar(ctx context.Context, filter repository.IngredienteFilter) (*dto.IngredienteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ingredientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.IngredienteResponse, 0, len(ingredientes))
	for i := range ingredientes {
		data = append(data, mapIngrediente(&ingredientes[i]))
	}
	return &dto.IngredienteListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *ingredienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarIngredienteRequest) (*dto.IngredienteResponse, error) {
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingrediente %s: %w", id, ErrNoEncontrado)
		}
		return nil, err
	}

	if req.Nombre != nil {
		i.Nombre = *req.Nombre
	}
	if req.UnidadMedida != nil {
		if !model.UnidadValida(*req.UnidadMedida) {
			return nil, fmt.Errorf("%w: unidad de medida %q desconocida", ErrEntradaInvalida, *req.UnidadMedida)
		}
		i.UnidadMedida = *req.UnidadMedida
	}
	if req.StockMinimo != nil {
		if req.StockMinimo.IsNegative() {
			return nil, fmt.Errorf("%w: stock mínimo negativo", ErrEntradaInvalida)
		}
		i.StockMinimo = *req.StockMinimo
	}

	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	resp := mapIngrediente(i)
	return &resp, nil
}

func (s *ingredienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("ingrediente %s: %w", id, ErrNoEncontrado)
		}
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *ingredienteService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("ingrediente %s: %w", id, ErrNoEncontrado)
		}
		return err
	}
	return s.repo.Reactivar(ctx, id)
}

// ObtenerAlertas lists every active ingredient and product at or below its
// reorder threshold.
func (s *ingredienteService) ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	alertas := make([]dto.AlertaStockResponse, 0)

	ingredientes, err := s.repo.ListarCriticos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ingredientes {
		ing := &ingredientes[i]
		alertas = append(alertas, dto.AlertaStockResponse{
			Tipo:        "ingrediente",
			ID:          ing.ID.String(),
			Nombre:      ing.Nombre,
			Stock:       ing.StockActual,
			StockMinimo: ing.StockMinimo,
			Unidad:      ing.UnidadMedida,
		})
	}

	productos, err := s.productoRepo.ListarCriticos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range productos {
		p := &productos[i]
		alertas = append(alertas, dto.AlertaStockResponse{
			Tipo:        "producto",
			ID:          p.ID.String(),
			Nombre:      p.Nombre,
			Stock:       decimal.NewFromInt(int64(p.StockActual)),
			StockMinimo: decimal.NewFromInt(int64(p.StockMinimo)),
		})
	}

	return alertas, nil
}
