package service

import (
	"context"
	"testing"

	"blendfabrica/internal/dto"
	"blendfabrica/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type produccionFixture struct {
	ingRepo        *stubIngredienteRepo
	prodRepo       *stubProductoRepo
	recetaRepo     *stubRecetaRepo
	produccionRepo *stubProduccionRepo
	movRepo        *stubMovimientoRepo
	svc            ProduccionService
}

func setupProduccion(t *testing.T) *produccionFixture {
	t.Helper()
	f := &produccionFixture{
		ingRepo:        newStubIngredienteRepo(),
		prodRepo:       newStubProductoRepo(),
		produccionRepo: &stubProduccionRepo{},
		movRepo:        &stubMovimientoRepo{},
	}
	f.recetaRepo = newStubRecetaRepo(f.ingRepo)
	f.svc = NewProduccionService(
		f.produccionRepo, f.ingRepo, f.prodRepo, f.recetaRepo, f.movRepo,
		NewCosteoCache(nil), nil,
	)
	return f
}

// Receta estándar: 2×A (costo 50) + 1×B (costo 30) → costo unitario 130.
func (f *produccionFixture) conRecetaEstandar() (*model.Producto, *model.Ingrediente, *model.Ingrediente) {
	a := f.ingRepo.agregar("Ingrediente A", "100", "50.00", "0")
	b := f.ingRepo.agregar("Ingrediente B", "100", "30.00", "0")
	p := f.prodRepo.agregar("Alfajor", "500.00", 0, 0)
	f.recetaRepo.agregar(p.ID, a.ID, "2")
	f.recetaRepo.agregar(p.ID, b.ID, "1")
	return p, a, b
}

func TestProducir_DerivaConsumosDeLaReceta(t *testing.T) {
	f := setupProduccion(t)
	p, a, b := f.conRecetaEstandar()

	resp, err := f.svc.Producir(context.Background(), dto.ProducirRequest{
		ProductoID: p.ID.String(),
		Cantidad:   3,
	})
	require.NoError(t, err)

	// Consumos: 3 × (2A + 1B)
	assert.True(t, f.ingRepo.items[a.ID].StockActual.Equal(dec("94")))
	assert.True(t, f.ingRepo.items[b.ID].StockActual.Equal(dec("97")))

	// Producto: stock +3, costo unitario derivado reemplaza al anterior
	guardado := f.prodRepo.items[p.ID]
	assert.Equal(t, 3, guardado.StockActual)
	assert.True(t, guardado.CostoUnitario.Equal(dec("130.00")))

	assert.Equal(t, 3, resp.Cantidad)
	assert.True(t, resp.CostoTotal.Equal(dec("390.00")))
	assert.True(t, resp.CostoUnitario.Equal(dec("130.00")))

	// Registro de producción con snapshot de costos por ingrediente
	require.Len(t, f.produccionRepo.producciones, 1)
	detalles := f.produccionRepo.producciones[0].Detalles
	require.Len(t, detalles, 2)
	for _, d := range detalles {
		switch d.IngredienteID {
		case a.ID:
			assert.True(t, d.Cantidad.Equal(dec("6")))
			assert.True(t, d.CostoUnitario.Equal(dec("50.00")))
		case b.ID:
			assert.True(t, d.Cantidad.Equal(dec("3")))
			assert.True(t, d.CostoUnitario.Equal(dec("30.00")))
		default:
			t.Fatalf("detalle con ingrediente inesperado %s", d.IngredienteID)
		}
	}

	// Movimiento de stock del producto
	require.Len(t, f.movRepo.movimientos, 1)
	mov := f.movRepo.movimientos[0]
	assert.Equal(t, "produccion", mov.Tipo)
	assert.Equal(t, 3, mov.Cantidad)
	assert.Equal(t, 0, mov.StockAnterior)
	assert.Equal(t, 3, mov.StockNuevo)
}

func TestProducir_CostoUnitarioNoDependeDelTamanoDelLote(t *testing.T) {
	for _, lote := range []int{1, 5, 20} {
		f := setupProduccion(t)
		p, _, _ := f.conRecetaEstandar()

		resp, err := f.svc.Producir(context.Background(), dto.ProducirRequest{
			ProductoID: p.ID.String(),
			Cantidad:   lote,
		})
		require.NoError(t, err)
		assert.True(t, resp.CostoUnitario.Equal(dec("130.00")),
			"lote de %d: esperaba 130.00, obtuve %s", lote, resp.CostoUnitario)
	}
}

func TestProducir_SinRecetaNiConsumos(t *testing.T) {
	f := setupProduccion(t)
	p := f.prodRepo.agregar("Brownie", "300.00", 0, 0)

	_, err := f.svc.Producir(context.Background(), dto.ProducirRequest{
		ProductoID: p.ID.String(),
		Cantidad:   1,
	})
	assert.ErrorIs(t, err, ErrSinReceta)
	assert.Empty(t, f.produccionRepo.producciones)
}

func TestProducir_StockInsuficienteNoMutaNada(t *testing.T) {
	f := setupProduccion(t)
	a := f.ingRepo.agregar("Ingrediente A", "100", "50.00", "0")
	b := f.ingRepo.agregar("Ingrediente B", "2", "30.00", "0")
	p := f.prodRepo.agregar("Alfajor", "500.00", 7, 0)
	f.recetaRepo.agregar(p.ID, a.ID, "2")
	f.recetaRepo.agregar(p.ID, b.ID, "1")

	_, err := f.svc.Producir(context.Background(), dto.ProducirRequest{
		ProductoID: p.ID.String(),
		Cantidad:   5, // necesita 5 de B, hay 2
	})

	var stockErr *StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Faltantes, 1)
	faltante := stockErr.Faltantes[0]
	assert.Equal(t, b.ID, faltante.IngredienteID)
	assert.True(t, faltante.Solicitado.Equal(dec("5")))
	assert.True(t, faltante.Disponible.Equal(dec("2")))
	assert.True(t, faltante.Faltante.Equal(dec("3")))

	// Ningún efecto parcial: ni siquiera el ingrediente que SÍ alcanzaba
	assert.True(t, f.ingRepo.items[a.ID].StockActual.Equal(dec("100")))
	assert.True(t, f.ingRepo.items[b.ID].StockActual.Equal(dec("2")))
	assert.Equal(t, 7, f.prodRepo.items[p.ID].StockActual)
	assert.Empty(t, f.produccionRepo.producciones)
	assert.Empty(t, f.movRepo.movimientos)
}

func TestProducir_ReportaTodosLosFaltantes(t *testing.T) {
	f := setupProduccion(t)
	a := f.ingRepo.agregar("Ingrediente A", "1", "50.00", "0")
	b := f.ingRepo.agregar("Ingrediente B", "1", "30.00", "0")
	p := f.prodRepo.agregar("Alfajor", "500.00", 0, 0)
	f.recetaRepo.agregar(p.ID, a.ID, "2")
	f.recetaRepo.agregar(p.ID, b.ID, "3")

	_, err := f.svc.Producir(context.Background(), dto.ProducirRequest{
		ProductoID: p.ID.String(),
		Cantidad:   1,
	})

	var stockErr *StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Len(t, stockErr.Faltantes, 2)
}

func TestProducir_ConsumosExplicitosReemplazanLaReceta(t *testing.T) {
	f := setupProduccion(t)
	p, a, b := f.conRecetaEstandar()

	// El operario cargó a mano un consumo distinto al teórico
	resp, err := f.svc.Producir(context.Background(), dto.ProducirRequest{
		ProductoID: p.ID.String(),
		Cantidad:   2,
		Consumos: []dto.ConsumoRequest{
			{IngredienteID: a.ID.String(), Cantidad: dec("5")},
		},
	})
	require.NoError(t, err)

	assert.True(t, f.ingRepo.items[a.ID].StockActual.Equal(dec("95")))
	assert.True(t, f.ingRepo.items[b.ID].StockActual.Equal(dec("100")), "B no estaba en los consumos explícitos")
	// 5 × 50 = 250 total, 125 por unidad
	assert.True(t, resp.CostoUnitario.Equal(dec("125.00")))
}

func TestProducir_ValidaEntrada(t *testing.T) {
	f := setupProduccion(t)
	p, a, _ := f.conRecetaEstandar()

	_, err := f.svc.Producir(context.Background(), dto.ProducirRequest{
		ProductoID: p.ID.String(), Cantidad: 0,
	})
	assert.ErrorIs(t, err, ErrCantidadInvalida)

	_, err = f.svc.Producir(context.Background(), dto.ProducirRequest{
		ProductoID: p.ID.String(), Cantidad: 1,
		Consumos: []dto.ConsumoRequest{
			{IngredienteID: a.ID.String(), Cantidad: dec("1")},
			{IngredienteID: a.ID.String(), Cantidad: dec("2")},
		},
	})
	assert.ErrorIs(t, err, ErrEntradaInvalida)

	_, err = f.svc.Producir(context.Background(), dto.ProducirRequest{
		ProductoID: p.ID.String(), Cantidad: 1,
		Consumos: []dto.ConsumoRequest{
			{IngredienteID: a.ID.String(), Cantidad: dec("-1")},
		},
	})
	assert.ErrorIs(t, err, ErrCantidadInvalida)

	_, err = f.svc.Producir(context.Background(), dto.ProducirRequest{
		ProductoID: "no-es-uuid", Cantidad: 1,
	})
	assert.ErrorIs(t, err, ErrEntradaInvalida)
}

func TestProducir_ProductoNoEncontrado(t *testing.T) {
	f := setupProduccion(t)
	a := f.ingRepo.agregar("Ingrediente A", "10", "50.00", "0")

	_, err := f.svc.Producir(context.Background(), dto.ProducirRequest{
		ProductoID: uuid.New().String(),
		Cantidad:   1,
		Consumos: []dto.ConsumoRequest{
			{IngredienteID: a.ID.String(), Cantidad: dec("1")},
		},
	})
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestProducir_LotesSucesivosReemplazanElCosto(t *testing.T) {
	f := setupProduccion(t)
	p, a, _ := f.conRecetaEstandar()

	_, err := f.svc.Producir(context.Background(), dto.ProducirRequest{
		ProductoID: p.ID.String(), Cantidad: 1,
	})
	require.NoError(t, err)
	assert.True(t, f.prodRepo.items[p.ID].CostoUnitario.Equal(dec("130.00")))

	// El costo de A sube: el próximo lote es más caro y REEMPLAZA el costo
	f.ingRepo.items[a.ID].CostoUnitario = dec("80.00")
	_, err = f.svc.Producir(context.Background(), dto.ProducirRequest{
		ProductoID: p.ID.String(), Cantidad: 1,
	})
	require.NoError(t, err)
	assert.True(t, f.prodRepo.items[p.ID].CostoUnitario.Equal(dec("190.00")))
	assert.Equal(t, 2, f.prodRepo.items[p.ID].StockActual)
}
