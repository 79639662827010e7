package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"blendfabrica/internal/dto"
	"blendfabrica/internal/model"
	"blendfabrica/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CosteoService derives cost, margin and production capacity from the recipe
// store and the ingredient store. Pure reads: every figure is computed from
// current state on demand (Redis only caches, with explicit invalidation on
// the two mutation points that can move the numbers — recipe lines and
// ingredient stock/cost).
type CosteoService interface {
	Costeo(ctx context.Context, productoID uuid.UUID) (*dto.CosteoResponse, error)
	Capacidad(ctx context.Context, productoID uuid.UUID) (*dto.CapacidadResponse, error)
	Rentabilidad(ctx context.Context) ([]dto.RentabilidadItem, error)
}

type costeoService struct {
	productoRepo repository.ProductoRepository
	recetaRepo   repository.RecetaRepository
	cache        *CosteoCache
}

func NewCosteoService(
	productoRepo repository.ProductoRepository,
	recetaRepo repository.RecetaRepository,
	cache *CosteoCache,
) CosteoService {
	return &costeoService{productoRepo: productoRepo, recetaRepo: recetaRepo, cache: cache}
}

// costoReceta rolls up the recipe: Σ cantidad_por_unidad × costo promedio del
// ingrediente. The recipe must be non-empty; a recipeless product has NO
// defined cost (never a silent zero).
func costoReceta(lineas []model.RecetaLinea) (decimal.Decimal, error) {
	costo := decimal.Zero
	for i := range lineas {
		l := &lineas[i]
		if l.Ingrediente == nil {
			return decimal.Zero, fmt.Errorf("línea de receta %s sin ingrediente cargado", l.ID)
		}
		costo = costo.Add(l.CantidadPorUnidad.Mul(l.Ingrediente.CostoUnitario))
	}
	return costo, nil
}

func (s *costeoService) Costeo(ctx context.Context, productoID uuid.UUID) (*dto.CosteoResponse, error) {
	var cached dto.CosteoResponse
	if s.cache.Get(ctx, claveCosteo(productoID), &cached) {
		return &cached, nil
	}

	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("producto %s: %w", productoID, ErrNoEncontrado)
		}
		return nil, err
	}

	lineas, err := s.recetaRepo.ListarPorProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	if len(lineas) == 0 {
		return nil, ErrSinReceta
	}

	costo, err := costoReceta(lineas)
	if err != nil {
		return nil, err
	}
	costo = costo.RoundBank(2)
	margen := producto.PrecioVenta.Sub(costo)
	// PrecioVenta is strictly positive by model invariant, so the percentage
	// is always defined here.
	margenPct := margen.Div(producto.PrecioVenta).Mul(decimal.NewFromInt(100)).RoundBank(2)

	resp := &dto.CosteoResponse{
		ProductoID:     producto.ID.String(),
		Producto:       producto.Nombre,
		Costo:          costo,
		PrecioVenta:    producto.PrecioVenta,
		MargenUnitario: margen,
		MargenPct:      margenPct,
	}
	s.cache.Set(ctx, claveCosteo(productoID), resp)
	return resp, nil
}

func (s *costeoService) Capacidad(ctx context.Context, productoID uuid.UUID) (*dto.CapacidadResponse, error) {
	var cached dto.CapacidadResponse
	if s.cache.Get(ctx, claveCapacidad(productoID), &cached) {
		return &cached, nil
	}

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
	if len(lineas) == 0 {
		// Capacity is undefined without a recipe — not zero, not infinity.
		return nil, ErrSinReceta
	}

	// Lines arrive ordered by ingrediente_id ASC; ties keep the FIRST
	// minimum, so repeated calls with unchanged state always name the same
	// limiting ingredient.
	var maxUnidades int64
	var limitante *model.Ingrediente
	for i := range lineas {
		l := &lineas[i]
		if l.Ingrediente == nil {
			return nil, fmt.Errorf("línea de receta %s sin ingrediente cargado", l.ID)
		}
		posibles := l.Ingrediente.StockActual.Div(l.CantidadPorUnidad).Floor().IntPart()
		if limitante == nil || posibles < maxUnidades {
			maxUnidades = posibles
			limitante = l.Ingrediente
		}
	}

	resp := &dto.CapacidadResponse{
		ProductoID:             productoID.String(),
		MaxUnidades:            maxUnidades,
		IngredienteLimitante:   limitante.Nombre,
		IngredienteLimitanteID: limitante.ID.String(),
	}
	s.cache.Set(ctx, claveCapacidad(productoID), resp)
	return resp, nil
}

// Rentabilidad ranks active products by margin percentage, best first.
// Products without a recipe are flagged and sorted last instead of being
// reported as 100 % margin.
func (s *costeoService) Rentabilidad(ctx context.Context) ([]dto.RentabilidadItem, error) {
	productos, err := s.productoRepo.ListarActivos(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.RentabilidadItem, 0, len(productos))
	for i := range productos {
		p := &productos[i]
		item := dto.RentabilidadItem{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			PrecioVenta: p.PrecioVenta,
		}

		lineas, err := s.recetaRepo.ListarPorProducto(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if len(lineas) == 0 {
			item.SinReceta = true
			items = append(items, item)
			continue
		}

		costo, err := costoReceta(lineas)
		if err != nil {
			return nil, err
		}
		costo = costo.RoundBank(2)
		margenPct := p.PrecioVenta.Sub(costo).Div(p.PrecioVenta).Mul(decimal.NewFromInt(100)).RoundBank(2)
		item.Costo = &costo
		item.MargenPct = &margenPct
		items = append(items, item)
	}

	sort.SliceStable(items, func(a, b int) bool {
		ia, ib := items[a], items[b]
		if ia.SinReceta != ib.SinReceta {
			return !ia.SinReceta
		}
		if ia.SinReceta {
			return ia.Nombre < ib.Nombre
		}
		return ia.MargenPct.GreaterThan(*ib.MargenPct)
	})
	return items, nil
}
