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

// RecetaService maintains recipe lines. Every mutation invalidates the
// affected product's cached cost and capacity.
type RecetaService interface {
	ObtenerReceta(ctx context.Context, productoID uuid.UUID) (*dto.RecetaResponse, error)
	AgregarLinea(ctx context.Context, productoID uuid.UUID, req dto.AgregarRecetaLineaRequest) (*dto.RecetaLineaResponse, error)
	ActualizarLinea(ctx context.Context, lineaID uuid.UUID, req dto.ActualizarRecetaLineaRequest) (*dto.RecetaLineaResponse, error)
	EliminarLinea(ctx context.Context, lineaID uuid.UUID) error
}

type recetaService struct {
	recetaRepo      repository.RecetaRepository
	productoRepo    repository.ProductoRepository
	ingredienteRepo repository.IngredienteRepository
	cache           *CosteoCache
}

func NewRecetaService(
	recetaRepo repository.RecetaRepository,
	productoRepo repository.ProductoRepository,
	ingredienteRepo repository.IngredienteRepository,
	cache *CosteoCache,
) RecetaService {
	return &recetaService{
		recetaRepo:      recetaRepo,
		productoRepo:    productoRepo,
		ingredienteRepo: ingredienteRepo,
		cache:           cache,
	}
}

func mapRecetaLinea(l *model.RecetaLinea) dto.RecetaLineaResponse {
	r := dto.RecetaLineaResponse{
		ID:                l.ID.String(),
		IngredienteID:     l.IngredienteID.String(),
		CantidadPorUnidad: l.CantidadPorUnidad,
	}
	if l.Ingrediente != nil {
		r.Ingrediente = l.Ingrediente.Nombre
		r.UnidadMedida = l.Ingrediente.UnidadMedida
		r.CostoUnitario = l.Ingrediente.CostoUnitario
		r.Subtotal = l.CantidadPorUnidad.Mul(l.Ingrediente.CostoUnitario).RoundBank(2)
	}
	return r
}

func (s *recetaService) ObtenerReceta(ctx context.Context, productoID uuid.UUID) (*dto.RecetaResponse, error) {
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("producto %s: %w", productoID, ErrNoEncontrado)
		}
		return nil, err
	}
	lineas, err := s.recetaRepo.ListarPorProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	resp := &dto.RecetaResponse{ProductoID: productoID.String()}
	resp.Lineas = make([]dto.RecetaLineaResponse, 0, len(lineas))
	for i := range lineas {
		resp.Lineas = append(resp.Lineas, mapRecetaLinea(&lineas[i]))
	}
	return resp, nil
}

func (s *recetaService) AgregarLinea(ctx context.Context, productoID uuid.UUID, req dto.AgregarRecetaLineaRequest) (*dto.RecetaLineaResponse, error) {
	if !req.Cantidad.IsPositive() {
		return nil, ErrCantidadInvalida
	}
	ingredienteID, err := uuid.Parse(req.IngredienteID)
	if err != nil {
		return nil, fmt.Errorf("%w: ingrediente_id %q", ErrEntradaInvalida, req.IngredienteID)
	}

	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("producto %s: %w", productoID, ErrNoEncontrado)
		}
		return nil, err
	}
	ing, err := s.ingredienteRepo.FindByID(ctx, ingredienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingrediente %s: %w", ingredienteID, ErrNoEncontrado)
		}
		return nil, err
	}

	// Una línea por par (producto, ingrediente); el índice único respalda
	// esta verificación contra inserciones concurrentes.
	if existente, err := s.recetaRepo.FindLinea(ctx, productoID, ingredienteID); err == nil && existente != nil {
		return nil, fmt.Errorf("%w: el ingrediente %s ya está en la receta", ErrEntradaInvalida, ing.Nombre)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	linea := &model.RecetaLinea{
		ProductoID:        productoID,
		IngredienteID:     ingredienteID,
		CantidadPorUnidad: req.Cantidad,
	}
	if err := s.recetaRepo.CrearLinea(ctx, linea); err != nil {
		return nil, err
	}
	linea.Ingrediente = ing

	s.cache.Invalidar(ctx, productoID)

	resp := mapRecetaLinea(linea)
	return &resp, nil
}

func (s *recetaService) ActualizarLinea(ctx context.Context, lineaID uuid.UUID, req dto.ActualizarRecetaLineaRequest) (*dto.RecetaLineaResponse, error) {
	if !req.Cantidad.IsPositive() {
		return nil, ErrCantidadInvalida
	}
	linea, err := s.recetaRepo.FindLineaByID(ctx, lineaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("línea de receta %s: %w", lineaID, ErrNoEncontrado)
		}
		return nil, err
	}

	if err := s.recetaRepo.ActualizarCantidad(ctx, lineaID, req.Cantidad); err != nil {
		return nil, err
	}
	linea.CantidadPorUnidad = req.Cantidad

	if linea.Ingrediente == nil {
		if ing, err := s.ingredienteRepo.FindByID(ctx, linea.IngredienteID); err == nil {
			linea.Ingrediente = ing
		}
	}

	s.cache.Invalidar(ctx, linea.ProductoID)

	resp := mapRecetaLinea(linea)
	return &resp, nil
}

func (s *recetaService) EliminarLinea(ctx context.Context, lineaID uuid.UUID) error {
	linea, err := s.recetaRepo.FindLineaByID(ctx, lineaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("línea de receta %s: %w", lineaID, ErrNoEncontrado)
		}
		return err
	}
	if err := s.recetaRepo.EliminarLinea(ctx, lineaID); err != nil {
		return err
	}
	s.cache.Invalidar(ctx, linea.ProductoID)
	return nil
}
