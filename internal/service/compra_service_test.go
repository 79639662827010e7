package service

import (
	"context"
	"testing"

	"blendfabrica/internal/dto"
	"blendfabrica/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCompra(t *testing.T) (*stubIngredienteRepo, *stubCompraRepo, *stubRecetaRepo, CompraService) {
	t.Helper()
	ingRepo := newStubIngredienteRepo()
	compraRepo := &stubCompraRepo{}
	recetaRepo := newStubRecetaRepo(ingRepo)
	svc := NewCompraService(ingRepo, compraRepo, recetaRepo, NewCosteoCache(nil))
	return ingRepo, compraRepo, recetaRepo, svc
}

func TestCostoPromedioPonderado(t *testing.T) {
	casos := []struct {
		nombre      string
		stock       string
		costo       string
		cantidad    string
		costoCompra string
		esperado    string
	}{
		{"stock cero toma el costo entrante", "0", "0", "10", "85.50", "85.50"},
		{"promedio simple a partes iguales", "10", "100.00", "10", "200.00", "150.00"},
		{"pondera por cantidad", "30", "10.00", "10", "30.00", "15.00"},
		{"compra gratis (donacion) diluye el costo", "10", "10.00", "10", "0", "5.00"},
		{"redondeo banquero hacia par", "4", "0.10", "4", "0.15", "0.12"},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			got := costoPromedioPonderado(dec(c.stock), dec(c.costo), dec(c.cantidad), dec(c.costoCompra))
			assert.True(t, got.Equal(dec(c.esperado)), "esperaba %s, obtuve %s", c.esperado, got)
		})
	}
}

func TestRegistrarCompra_ActualizaStockYCostoJuntos(t *testing.T) {
	ingRepo, compraRepo, _, svc := setupCompra(t)
	harina := ingRepo.agregar("Harina", "10", "100.00", "0")

	resp, err := svc.RegistrarCompra(context.Background(), harina.ID, dto.RegistrarCompraRequest{
		Cantidad:      dec("10"),
		CostoUnitario: dec("200.00"),
	})
	require.NoError(t, err)

	guardado := ingRepo.items[harina.ID]
	assert.True(t, guardado.StockActual.Equal(dec("20")))
	assert.True(t, guardado.CostoUnitario.Equal(dec("150.00")))

	// Ledger entry with before/after snapshots
	require.Len(t, compraRepo.compras, 1)
	compra := compraRepo.compras[0]
	assert.True(t, compra.StockAntes.Equal(dec("10")))
	assert.True(t, compra.StockDespues.Equal(dec("20")))
	assert.True(t, compra.CostoAntes.Equal(dec("100.00")))
	assert.True(t, compra.CostoDespues.Equal(dec("150.00")))

	assert.True(t, resp.Ingrediente.StockActual.Equal(dec("20")))
	assert.True(t, resp.Ingrediente.CostoUnitario.Equal(dec("150.00")))
}

func TestRegistrarCompra_PrimeraCompraDefineElCosto(t *testing.T) {
	ingRepo, _, _, svc := setupCompra(t)
	azucar := ingRepo.agregar("Azucar", "0", "0", "0")

	_, err := svc.RegistrarCompra(context.Background(), azucar.ID, dto.RegistrarCompraRequest{
		Cantidad:      dec("5"),
		CostoUnitario: dec("42.37"),
	})
	require.NoError(t, err)
	assert.True(t, ingRepo.items[azucar.ID].CostoUnitario.Equal(dec("42.37")))
}

func TestRegistrarCompra_Validaciones(t *testing.T) {
	ingRepo, compraRepo, _, svc := setupCompra(t)
	harina := ingRepo.agregar("Harina", "10", "100.00", "0")

	_, err := svc.RegistrarCompra(context.Background(), harina.ID, dto.RegistrarCompraRequest{
		Cantidad: dec("0"), CostoUnitario: dec("10"),
	})
	assert.ErrorIs(t, err, ErrCantidadInvalida)

	_, err = svc.RegistrarCompra(context.Background(), harina.ID, dto.RegistrarCompraRequest{
		Cantidad: dec("-3"), CostoUnitario: dec("10"),
	})
	assert.ErrorIs(t, err, ErrCantidadInvalida)

	_, err = svc.RegistrarCompra(context.Background(), harina.ID, dto.RegistrarCompraRequest{
		Cantidad: dec("3"), CostoUnitario: dec("-1"),
	})
	assert.ErrorIs(t, err, ErrCostoInvalido)

	// Nothing was written and the ingredient kept its state
	assert.Empty(t, compraRepo.compras)
	assert.True(t, ingRepo.items[harina.ID].StockActual.Equal(dec("10")))
	assert.True(t, ingRepo.items[harina.ID].CostoUnitario.Equal(dec("100.00")))
}

func TestRegistrarCompra_IngredienteNoEncontrado(t *testing.T) {
	_, _, _, svc := setupCompra(t)

	_, err := svc.RegistrarCompra(context.Background(), uuid.New(), dto.RegistrarCompraRequest{
		Cantidad: dec("1"), CostoUnitario: dec("1"),
	})
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestListarCompras_FiltraPorIngrediente(t *testing.T) {
	ingRepo, _, _, svc := setupCompra(t)
	harina := ingRepo.agregar("Harina", "0", "0", "0")
	azucar := ingRepo.agregar("Azucar", "0", "0", "0")

	for _, id := range []uuid.UUID{harina.ID, harina.ID, azucar.ID} {
		_, err := svc.RegistrarCompra(context.Background(), id, dto.RegistrarCompraRequest{
			Cantidad: dec("1"), CostoUnitario: dec("10"),
		})
		require.NoError(t, err)
	}

	resp, err := svc.Listar(context.Background(), repository.CompraFilter{IngredienteID: &harina.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	for _, c := range resp.Data {
		assert.Equal(t, harina.ID.String(), c.IngredienteID)
	}
}
