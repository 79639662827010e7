package service

import (
	"context"
	"errors"
	"fmt"

	"blendfabrica/internal/dto"
	"blendfabrica/internal/model"
	"blendfabrica/internal/repository"
	"blendfabrica/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProduccionService owns the production transaction: the atomic conversion of
// ingredient stock into product stock according to a recipe.
//
// All preconditions are checked against rows read INSIDE the transaction, and
// every mutation happens inside the same transaction — a failing batch leaves
// every ingredient's stock and cost untouched, emits no record, and does not
// touch the product.
type ProduccionService interface {
	Producir(ctx context.Context, req dto.ProducirRequest) (*dto.ProduccionResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProduccionResponse, error)
	Listar(ctx context.Context, filter repository.ProduccionFilter) (*dto.ProduccionListResponse, error)
}

type produccionService struct {
	produccionRepo  repository.ProduccionRepository
	ingredienteRepo repository.IngredienteRepository
	productoRepo    repository.ProductoRepository
	recetaRepo      repository.RecetaRepository
	movimientoRepo  repository.MovimientoStockRepository
	cache           *CosteoCache
	dispatcher      *worker.Dispatcher
}

func NewProduccionService(
	produccionRepo repository.ProduccionRepository,
	ingredienteRepo repository.IngredienteRepository,
	productoRepo repository.ProductoRepository,
	recetaRepo repository.RecetaRepository,
	movimientoRepo repository.MovimientoStockRepository,
	cache *CosteoCache,
	dispatcher *worker.Dispatcher,
) ProduccionService {
	return &produccionService{
		produccionRepo:  produccionRepo,
		ingredienteRepo: ingredienteRepo,
		productoRepo:    productoRepo,
		recetaRepo:      recetaRepo,
		movimientoRepo:  movimientoRepo,
		cache:           cache,
		dispatcher:      dispatcher,
	}
}

// consumo is one resolved (ingrediente, cantidad) entry of a batch.
type consumo struct {
	ingredienteID uuid.UUID
	cantidad      decimal.Decimal
}

// resolverConsumos validates the request's consumption list, or derives it
// from the recipe when the caller omitted it.
func (s *produccionService) resolverConsumos(ctx context.Context, productoID uuid.UUID, req dto.ProducirRequest) ([]consumo, error) {
	if len(req.Consumos) == 0 {
		lineas, err := s.recetaRepo.ListarPorProducto(ctx, productoID)
		if err != nil {
			return nil, err
		}
		if len(lineas) == 0 {
			return nil, ErrSinReceta
		}
		factor := decimal.NewFromInt(int64(req.Cantidad))
		consumos := make([]consumo, 0, len(lineas))
		for _, l := range lineas {
			consumos = append(consumos, consumo{
				ingredienteID: l.IngredienteID,
				cantidad:      l.CantidadPorUnidad.Mul(factor),
			})
		}
		return consumos, nil
	}

	vistos := make(map[uuid.UUID]bool, len(req.Consumos))
	consumos := make([]consumo, 0, len(req.Consumos))
	for _, c := range req.Consumos {
		id, err := uuid.Parse(c.IngredienteID)
		if err != nil {
			return nil, fmt.Errorf("%w: ingrediente_id %q", ErrEntradaInvalida, c.IngredienteID)
		}
		if vistos[id] {
			return nil, fmt.Errorf("%w: ingrediente %s duplicado", ErrEntradaInvalida, id)
		}
		vistos[id] = true
		if !c.Cantidad.IsPositive() {
			return nil, ErrCantidadInvalida
		}
		consumos = append(consumos, consumo{ingredienteID: id, cantidad: c.Cantidad})
	}
	return consumos, nil
}

func (s *produccionService) Producir(ctx context.Context, req dto.ProducirRequest) (*dto.ProduccionResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("%w: producto_id %q", ErrEntradaInvalida, req.ProductoID)
	}
	if req.Cantidad <= 0 {
		return nil, ErrCantidadInvalida
	}

	consumos, err := s.resolverConsumos(ctx, productoID, req)
	if err != nil {
		return nil, err
	}

	var produccion model.Produccion
	var criticos []model.Ingrediente

	txErr := runTxRetry(ctx, s.produccionRepo.DB(), func(tx *gorm.DB) error {
		criticos = criticos[:0]

		producto, err := s.productoRepo.FindByIDTx(tx, productoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("producto %s: %w", productoID, ErrNoEncontrado)
			}
			return err
		}

		// Sufficiency check over every consumed ingredient BEFORE any
		// decrement. All shortfalls are collected so the caller sees the
		// complete picture in one round trip.
		ingredientes := make([]*model.Ingrediente, 0, len(consumos))
		var faltantes []FaltanteStock
		for _, c := range consumos {
			ing, err := s.ingredienteRepo.FindByIDTx(tx, c.ingredienteID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("ingrediente %s: %w", c.ingredienteID, ErrNoEncontrado)
				}
				return err
			}
			if ing.StockActual.LessThan(c.cantidad) {
				faltantes = append(faltantes, FaltanteStock{
					IngredienteID: ing.ID,
					Nombre:        ing.Nombre,
					Solicitado:    c.cantidad,
					Disponible:    ing.StockActual,
					Faltante:      c.cantidad.Sub(ing.StockActual),
				})
			}
			ingredientes = append(ingredientes, ing)
		}
		if len(faltantes) > 0 {
			return &StockInsuficienteError{Faltantes: faltantes}
		}

		// Commit phase. The guarded decrement re-checks sufficiency at the
		// row level: a concurrent producer that raced past the read above
		// makes RowsAffected zero and aborts the whole transaction.
		costoTotal := decimal.Zero
		detalles := make([]model.ProduccionDetalle, 0, len(consumos))
		for idx, c := range consumos {
			ing := ingredientes[idx]

			afectadas, err := s.ingredienteRepo.DescontarStockTx(tx, c.ingredienteID, c.cantidad)
			if err != nil {
				return err
			}
			if afectadas == 0 {
				return &StockInsuficienteError{Faltantes: []FaltanteStock{{
					IngredienteID: ing.ID,
					Nombre:        ing.Nombre,
					Solicitado:    c.cantidad,
					Disponible:    ing.StockActual,
					Faltante:      c.cantidad.Sub(ing.StockActual),
				}}}
			}

			// Consumption never touches the weighted-average cost — only
			// purchases do. The snapshot keeps the batch auditable after
			// later purchases move the average.
			costoTotal = costoTotal.Add(c.cantidad.Mul(ing.CostoUnitario))
			detalles = append(detalles, model.ProduccionDetalle{
				IngredienteID: c.ingredienteID,
				Cantidad:      c.cantidad,
				CostoUnitario: ing.CostoUnitario,
			})

			if ing.StockActual.Sub(c.cantidad).LessThanOrEqual(ing.StockMinimo) {
				restante := *ing
				restante.StockActual = ing.StockActual.Sub(c.cantidad)
				criticos = append(criticos, restante)
			}
		}

		costoUnitario := costoTotal.Div(decimal.NewFromInt(int64(req.Cantidad))).RoundBank(2)

		if err := s.productoRepo.IncrementarStockTx(tx, productoID, req.Cantidad); err != nil {
			return err
		}
		// The batch cost REPLACES the product's unit cost: production cost is
		// not averaged across batches, only purchase cost is.
		if err := s.productoRepo.ActualizarCostoTx(tx, productoID, costoUnitario); err != nil {
			return err
		}

		produccion = model.Produccion{
			ProductoID:    productoID,
			Cantidad:      req.Cantidad,
			CostoTotal:    costoTotal.RoundBank(2),
			CostoUnitario: costoUnitario,
			Nota:          req.Nota,
			Detalles:      detalles,
		}
		if err := s.produccionRepo.CreateTx(tx, &produccion); err != nil {
			return err
		}

		ref := produccion.ID
		mov := &model.MovimientoStock{
			ProductoID:    productoID,
			Tipo:          "produccion",
			Cantidad:      req.Cantidad,
			StockAnterior: producto.StockActual,
			StockNuevo:    producto.StockActual + req.Cantidad,
			Motivo:        fmt.Sprintf("Producción de %d unidades", req.Cantidad),
			ReferenciaID:  &ref,
		}
		return s.movimientoRepo.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Ingredient stock dropped: the capacity of every product sharing these
	// ingredients is stale.
	s.invalidarAfectados(ctx, productoID, consumos)

	// Fire-and-forget low-stock alerts for ingredients left at/below their
	// reorder threshold.
	if s.dispatcher != nil {
		for i := range criticos {
			ing := &criticos[i]
			payload := worker.AlertaStockPayload{
				Tipo:        "ingrediente",
				ID:          ing.ID.String(),
				Nombre:      ing.Nombre,
				Stock:       ing.StockActual.String(),
				StockMinimo: ing.StockMinimo.String(),
				Unidad:      ing.UnidadMedida,
			}
			if err := s.dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
				log.Warn().Err(err).Str("ingrediente", ing.Nombre).Msg("no se pudo encolar alerta de stock")
			}
		}
	}

	return produccionToResponse(&produccion), nil
}

func (s *produccionService) invalidarAfectados(ctx context.Context, productoID uuid.UUID, consumos []consumo) {
	afectados := map[uuid.UUID]bool{productoID: true}
	for _, c := range consumos {
		ids, err := s.recetaRepo.ProductosQueUsan(ctx, c.ingredienteID)
		if err != nil {
			continue
		}
		for _, id := range ids {
			afectados[id] = true
		}
	}
	ids := make([]uuid.UUID, 0, len(afectados))
	for id := range afectados {
		ids = append(ids, id)
	}
	s.cache.Invalidar(ctx, ids...)
}

func (s *produccionService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProduccionResponse, error) {
	p, err := s.produccionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("producción %s: %w", id, ErrNoEncontrado)
		}
		return nil, err
	}
	return produccionToResponse(p), nil
}

func (s *produccionService) Listar(ctx context.Context, filter repository.ProduccionFilter) (*dto.ProduccionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	producciones, total, err := s.produccionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProduccionResponse, 0, len(producciones))
	for i := range producciones {
		items = append(items, *produccionToResponse(&producciones[i]))
	}
	return &dto.ProduccionListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func produccionToResponse(p *model.Produccion) *dto.ProduccionResponse {
	detalles := make([]dto.ProduccionDetalleResponse, 0, len(p.Detalles))
	for _, d := range p.Detalles {
		nombre := ""
		if d.Ingrediente != nil {
			nombre = d.Ingrediente.Nombre
		}
		detalles = append(detalles, dto.ProduccionDetalleResponse{
			IngredienteID: d.IngredienteID.String(),
			Ingrediente:   nombre,
			Cantidad:      d.Cantidad,
			CostoUnitario: d.CostoUnitario,
			Subtotal:      d.Cantidad.Mul(d.CostoUnitario).RoundBank(2),
		})
	}
	nombreProducto := ""
	if p.Producto != nil {
		nombreProducto = p.Producto.Nombre
	}
	return &dto.ProduccionResponse{
		ID:            p.ID.String(),
		ProductoID:    p.ProductoID.String(),
		Producto:      nombreProducto,
		Cantidad:      p.Cantidad,
		CostoTotal:    p.CostoTotal,
		CostoUnitario: p.CostoUnitario,
		Nota:          p.Nota,
		Detalles:      detalles,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
