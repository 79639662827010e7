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

// VentaService records sales. It is a thin consumer of the costing engine:
// each line snapshots the product's current unit cost and margin so the sale
// keeps its historical profitability when costs later move.
type VentaService interface {
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter repository.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo           repository.VentaRepository
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
	dispatcher     *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoStockRepository,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:           repo,
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
		dispatcher:     dispatcher,
	}
}

func (s *ventaService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: la venta no tiene items", ErrEntradaInvalida)
	}

	type itemResuelto struct {
		productoID uuid.UUID
		cantidad   int
	}
	items := make([]itemResuelto, 0, len(req.Items))
	vistos := make(map[uuid.UUID]bool, len(req.Items))
	for _, it := range req.Items {
		pid, err := uuid.Parse(it.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("%w: producto_id %q", ErrEntradaInvalida, it.ProductoID)
		}
		if vistos[pid] {
			return nil, fmt.Errorf("%w: producto %s duplicado", ErrEntradaInvalida, pid)
		}
		vistos[pid] = true
		if it.Cantidad <= 0 {
			return nil, ErrCantidadInvalida
		}
		items = append(items, itemResuelto{productoID: pid, cantidad: it.Cantidad})
	}

	var venta model.Venta
	var criticos []model.Producto

	txErr := runTxRetry(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		criticos = criticos[:0]
		venta = model.Venta{Nota: req.Nota}
		total := decimal.Zero

		// Pre-flight sufficiency over every product before any decrement, so
		// a failing sale leaves all product stocks untouched.
		productos := make([]*model.Producto, 0, len(items))
		var faltantes []FaltanteProducto
		for _, it := range items {
			p, err := s.productoRepo.FindByIDTx(tx, it.productoID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("producto %s: %w", it.productoID, ErrNoEncontrado)
				}
				return err
			}
			if !p.Activo {
				return fmt.Errorf("%w: el producto %s está inactivo", ErrEntradaInvalida, p.Nombre)
			}
			if p.StockActual < it.cantidad {
				faltantes = append(faltantes, FaltanteProducto{
					ProductoID: p.ID,
					Nombre:     p.Nombre,
					Solicitado: it.cantidad,
					Disponible: p.StockActual,
					Faltante:   it.cantidad - p.StockActual,
				})
			}
			productos = append(productos, p)
		}
		if len(faltantes) > 0 {
			return &StockProductoInsuficienteError{Faltantes: faltantes}
		}

		for idx, it := range items {
			p := productos[idx]

			afectadas, err := s.productoRepo.DescontarStockTx(tx, it.productoID, it.cantidad)
			if err != nil {
				return err
			}
			if afectadas == 0 {
				return &StockProductoInsuficienteError{Faltantes: []FaltanteProducto{{
					ProductoID: p.ID,
					Nombre:     p.Nombre,
					Solicitado: it.cantidad,
					Disponible: p.StockActual,
					Faltante:   it.cantidad - p.StockActual,
				}}}
			}

			subtotal := p.PrecioVenta.Mul(decimal.NewFromInt(int64(it.cantidad)))
			total = total.Add(subtotal)
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     it.productoID,
				Cantidad:       it.cantidad,
				PrecioUnitario: p.PrecioVenta,
				CostoUnitario:  p.CostoUnitario,
				MargenUnitario: p.PrecioVenta.Sub(p.CostoUnitario),
				Subtotal:       subtotal,
			})

			if p.StockActual-it.cantidad <= p.StockMinimo {
				restante := *p
				restante.StockActual = p.StockActual - it.cantidad
				criticos = append(criticos, restante)
			}
		}

		venta.Total = total.RoundBank(2)
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return err
		}

		for idx, it := range items {
			p := productos[idx]
			ref := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    it.productoID,
				Tipo:          "venta",
				Cantidad:      -it.cantidad,
				StockAnterior: p.StockActual,
				StockNuevo:    p.StockActual - it.cantidad,
				Motivo:        "Venta",
				ReferenciaID:  &ref,
			}
			if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil {
		for i := range criticos {
			p := &criticos[i]
			payload := worker.AlertaStockPayload{
				Tipo:        "producto",
				ID:          p.ID.String(),
				Nombre:      p.Nombre,
				Stock:       fmt.Sprintf("%d", p.StockActual),
				StockMinimo: fmt.Sprintf("%d", p.StockMinimo),
			}
			if err := s.dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
				log.Warn().Err(err).Str("producto", p.Nombre).Msg("no se pudo encolar alerta de stock")
			}
		}
	}

	return ventaToResponse(&venta), nil
}

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("venta %s: %w", id, ErrNoEncontrado)
		}
		return nil, err
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) Listar(ctx context.Context, filter repository.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.VentaItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		nombre := ""
		if it.Producto != nil {
			nombre = it.Producto.Nombre
		}
		items = append(items, dto.VentaItemResponse{
			ProductoID:     it.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			CostoUnitario:  it.CostoUnitario,
			MargenUnitario: it.MargenUnitario,
			Subtotal:       it.Subtotal,
		})
	}
	return &dto.VentaResponse{
		ID:        v.ID.String(),
		Total:     v.Total,
		Nota:      v.Nota,
		Items:     items,
		CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
