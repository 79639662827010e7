package service

import (
	"context"
	"errors"
	"fmt"

	"blendfabrica/internal/dto"
	"blendfabrica/internal/model"
	"blendfabrica/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for products.
// StockActual and CostoUnitario never appear in create/update requests:
// they belong to the production processor and the sales recorder.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter repository.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo  repository.ProductoRepository
	cache *CosteoCache
}

func NewProductoService(repo repository.ProductoRepository, cache *CosteoCache) ProductoService {
	return &productoService{repo: repo, cache: cache}
}

func mapProducto(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:            p.ID.String(),
		Nombre:        p.Nombre,
		Descripcion:   p.Descripcion,
		Categoria:     p.Categoria,
		PrecioVenta:   p.PrecioVenta,
		CostoUnitario: p.CostoUnitario,
		StockActual:   p.StockActual,
		StockMinimo:   p.StockMinimo,
		Activo:        p.Activo,
	}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if !req.PrecioVenta.IsPositive() {
		return nil, fmt.Errorf("%w: el precio de venta debe ser mayor a cero", ErrEntradaInvalida)
	}

	p := &model.Producto{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Categoria:   req.Categoria,
		PrecioVenta: req.PrecioVenta.RoundBank(2),
		StockMinimo: req.StockMinimo,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := mapProducto(p)
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("producto %s: %w", id, ErrNoEncontrado)
		}
		return nil, err
	}
	resp := mapProducto(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter repository.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, mapProducto(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("producto %s: %w", id, ErrNoEncontrado)
		}
		return nil, err
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.PrecioVenta != nil {
		if !req.PrecioVenta.IsPositive() {
			return nil, fmt.Errorf("%w: el precio de venta debe ser mayor a cero", ErrEntradaInvalida)
		}
		p.PrecioVenta = req.PrecioVenta.RoundBank(2)
	}
	if req.StockMinimo != nil {
		if *req.StockMinimo < 0 {
			return nil, fmt.Errorf("%w: stock mínimo negativo", ErrEntradaInvalida)
		}
		p.StockMinimo = *req.StockMinimo
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	// El margen se deriva del precio de venta: el costeo cacheado queda viejo.
	if req.PrecioVenta != nil {
		s.cache.Invalidar(ctx, id)
	}

	resp := mapProducto(p)
	return &resp, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("producto %s: %w", id, ErrNoEncontrado)
		}
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("producto %s: %w", id, ErrNoEncontrado)
		}
		return err
	}
	return s.repo.Reactivar(ctx, id)
}
