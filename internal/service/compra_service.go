package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blendfabrica/internal/dto"
	"blendfabrica/internal/model"
	"blendfabrica/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompraService is the purchase ledger: the only path (besides production
// reversal, not implemented) that raises an ingredient's weighted-average
// cost. Stock and cost are always updated together, in one transaction with
// the immutable ledger entry.
type CompraService interface {
	RegistrarCompra(ctx context.Context, ingredienteID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	Listar(ctx context.Context, filter repository.CompraFilter) (*dto.CompraListResponse, error)
}

type compraService struct {
	ingredienteRepo repository.IngredienteRepository
	compraRepo      repository.CompraRepository
	recetaRepo      repository.RecetaRepository
	cache           *CosteoCache
}

func NewCompraService(
	ingredienteRepo repository.IngredienteRepository,
	compraRepo repository.CompraRepository,
	recetaRepo repository.RecetaRepository,
	cache *CosteoCache,
) CompraService {
	return &compraService{
		ingredienteRepo: ingredienteRepo,
		compraRepo:      compraRepo,
		recetaRepo:      recetaRepo,
		cache:           cache,
	}
}

// costoPromedioPonderado computes the new running weighted-average cost after
// a purchase:
//
//	(stock*costo + cantidad*costoCompra) / (stock + cantidad)
//
// Rounded once, to the currency's 2 decimal places, round-half-to-even.
// The zero-stock fallback takes the incoming cost directly.
func costoPromedioPonderado(stock, costo, cantidad, costoCompra decimal.Decimal) decimal.Decimal {
	nuevoStock := stock.Add(cantidad)
	if !nuevoStock.IsPositive() {
		return costoCompra.RoundBank(2)
	}
	valorPrevio := stock.Mul(costo)
	valorEntrante := cantidad.Mul(costoCompra)
	return valorPrevio.Add(valorEntrante).Div(nuevoStock).RoundBank(2)
}

func (s *compraService) RegistrarCompra(ctx context.Context, ingredienteID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	if !req.Cantidad.IsPositive() {
		return nil, ErrCantidadInvalida
	}
	if req.CostoUnitario.IsNegative() {
		return nil, ErrCostoInvalido
	}

	fecha := time.Now()
	if req.Fecha != nil {
		fecha = *req.Fecha
	}

	var compra model.Compra
	var actualizado model.Ingrediente

	txErr := runTxRetry(ctx, s.compraRepo.DB(), func(tx *gorm.DB) error {
		ing, err := s.ingredienteRepo.FindByIDTx(tx, ingredienteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("ingrediente %s: %w", ingredienteID, ErrNoEncontrado)
			}
			return err
		}

		nuevoStock := ing.StockActual.Add(req.Cantidad)
		nuevoCosto := costoPromedioPonderado(ing.StockActual, ing.CostoUnitario, req.Cantidad, req.CostoUnitario)

		if err := s.ingredienteRepo.ActualizarStockCostoTx(tx, ing.ID, nuevoStock, nuevoCosto); err != nil {
			return err
		}

		compra = model.Compra{
			IngredienteID: ing.ID,
			Cantidad:      req.Cantidad,
			CostoUnitario: req.CostoUnitario.RoundBank(2),
			Proveedor:     req.Proveedor,
			FacturaRef:    req.FacturaRef,
			Notas:         req.Notas,
			Fecha:         fecha,
			StockAntes:    ing.StockActual,
			StockDespues:  nuevoStock,
			CostoAntes:    ing.CostoUnitario,
			CostoDespues:  nuevoCosto,
		}
		if err := s.compraRepo.CreateTx(tx, &compra); err != nil {
			return err
		}

		actualizado = *ing
		actualizado.StockActual = nuevoStock
		actualizado.CostoUnitario = nuevoCosto
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// The ingredient's cost changed: every product whose recipe uses it has a
	// stale cached cost (and capacity, since stock rose). If the lookup fails
	// the cache TTL still bounds the staleness, but the failure gets logged.
	if afectados, err := s.recetaRepo.ProductosQueUsan(ctx, ingredienteID); err != nil {
		log.Warn().Stringer("ingrediente_id", ingredienteID).Err(err).
			Msg("no se pudo resolver los productos afectados, invalidación de cache omitida")
	} else {
		s.cache.Invalidar(ctx, afectados...)
	}

	resp := compraToResponse(&compra)
	resp.Ingrediente = mapIngrediente(&actualizado)
	return resp, nil
}

func (s *compraService) Listar(ctx context.Context, filter repository.CompraFilter) (*dto.CompraListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	compras, total, err := s.compraRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		r := compraToResponse(&compras[i])
		if compras[i].Ingrediente != nil {
			r.Ingrediente = mapIngrediente(compras[i].Ingrediente)
		}
		items = append(items, *r)
	}
	return &dto.CompraListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	return &dto.CompraResponse{
		ID:            c.ID.String(),
		IngredienteID: c.IngredienteID.String(),
		Cantidad:      c.Cantidad,
		CostoUnitario: c.CostoUnitario,
		Proveedor:     c.Proveedor,
		FacturaRef:    c.FacturaRef,
		Notas:         c.Notas,
		Fecha:         c.Fecha.Format("2006-01-02"),
		StockAntes:    c.StockAntes,
		StockDespues:  c.StockDespues,
		CostoAntes:    c.CostoAntes,
		CostoDespues:  c.CostoDespues,
	}
}
