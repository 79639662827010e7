package service

import (
	"context"
	"testing"

	"blendfabrica/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCosteo(t *testing.T) (*stubIngredienteRepo, *stubProductoRepo, *stubRecetaRepo, CosteoService) {
	t.Helper()
	ingRepo := newStubIngredienteRepo()
	prodRepo := newStubProductoRepo()
	recetaRepo := newStubRecetaRepo(ingRepo)
	svc := NewCosteoService(prodRepo, recetaRepo, NewCosteoCache(nil))
	return ingRepo, prodRepo, recetaRepo, svc
}

// uuidConSufijo builds deterministic ids so the ingrediente_id ordering of
// recipe lines is known in advance.
func uuidConSufijo(b byte) uuid.UUID {
	var id uuid.UUID
	id[15] = b
	id[6] = 0x40 // version 4
	id[8] = 0x80 // variant
	return id
}

func TestCosteo_CostoYMargen(t *testing.T) {
	ingRepo, prodRepo, recetaRepo, svc := setupCosteo(t)
	a := ingRepo.agregar("Harina", "100", "100.00", "0")
	b := ingRepo.agregar("Dulce", "100", "400.00", "0")
	p := prodRepo.agregar("Alfajor", "1000.00", 0, 0)
	recetaRepo.agregar(p.ID, a.ID, "2") // 200
	recetaRepo.agregar(p.ID, b.ID, "1") // 400

	resp, err := svc.Costeo(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, resp.Costo.Equal(dec("600.00")))
	assert.True(t, resp.MargenUnitario.Equal(dec("400.00")))
	assert.True(t, resp.MargenPct.Equal(dec("40.00")))
}

func TestCosteo_SinRecetaEsEstadoDistinto(t *testing.T) {
	_, prodRepo, _, svc := setupCosteo(t)
	p := prodRepo.agregar("Brownie", "300.00", 0, 0)

	_, err := svc.Costeo(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrSinReceta)
}

func TestCosteo_ProductoNoEncontrado(t *testing.T) {
	_, _, _, svc := setupCosteo(t)
	_, err := svc.Costeo(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestCosteo_ReflejaElCostoPromedioVigente(t *testing.T) {
	ingRepo, prodRepo, recetaRepo, svc := setupCosteo(t)
	a := ingRepo.agregar("Harina", "100", "100.00", "0")
	p := prodRepo.agregar("Pan", "500.00", 0, 0)
	recetaRepo.agregar(p.ID, a.ID, "1")

	resp, err := svc.Costeo(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, resp.Costo.Equal(dec("100.00")))

	// Una compra movió el promedio: el costeo lo refleja sin recalculo manual
	ingRepo.items[a.ID].CostoUnitario = dec("150.00")
	resp, err = svc.Costeo(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, resp.Costo.Equal(dec("150.00")))
}

func TestCapacidad_PisoYLimitante(t *testing.T) {
	ingRepo, prodRepo, recetaRepo, svc := setupCosteo(t)
	a := ingRepo.agregar("Harina", "10", "1.00", "0")
	b := ingRepo.agregar("Dulce", "5", "1.00", "0")
	p := prodRepo.agregar("Alfajor", "100.00", 0, 0)
	recetaRepo.agregar(p.ID, a.ID, "3") // floor(10/3) = 3
	recetaRepo.agregar(p.ID, b.ID, "1") // floor(5/1)  = 5

	resp, err := svc.Capacidad(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.MaxUnidades)
	assert.Equal(t, a.ID.String(), resp.IngredienteLimitanteID)
	assert.Equal(t, "Harina", resp.IngredienteLimitante)
}

func TestCapacidad_SinStockEsCero(t *testing.T) {
	ingRepo, prodRepo, recetaRepo, svc := setupCosteo(t)
	a := ingRepo.agregar("Harina", "0", "1.00", "0")
	p := prodRepo.agregar("Pan", "100.00", 0, 0)
	recetaRepo.agregar(p.ID, a.ID, "2")

	resp, err := svc.Capacidad(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.MaxUnidades)
}

func TestCapacidad_SinReceta(t *testing.T) {
	_, prodRepo, _, svc := setupCosteo(t)
	p := prodRepo.agregar("Brownie", "300.00", 0, 0)

	_, err := svc.Capacidad(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrSinReceta)
}

func TestCapacidad_EmpateDeterministaPorOrdenDeIngrediente(t *testing.T) {
	ingRepo, prodRepo, recetaRepo, svc := setupCosteo(t)

	// Dos ingredientes con ids conocidos y la MISMA capacidad (10/1 = 10/1):
	// gana siempre el de ingrediente_id menor, sin importar el orden de alta.
	ingA := &model.Ingrediente{
		ID: uuidConSufijo(0x01), Nombre: "Zeta", UnidadMedida: model.UnidadGramo,
		StockActual: dec("10"), CostoUnitario: dec("1.00"), Activo: true,
	}
	ingB := &model.Ingrediente{
		ID: uuidConSufijo(0x02), Nombre: "Alfa", UnidadMedida: model.UnidadGramo,
		StockActual: dec("10"), CostoUnitario: dec("1.00"), Activo: true,
	}
	ingRepo.items[ingA.ID] = ingA
	ingRepo.items[ingB.ID] = ingB

	p := prodRepo.agregar("Alfajor", "100.00", 0, 0)
	// Alta en orden inverso al de los ids
	recetaRepo.agregar(p.ID, ingB.ID, "1")
	recetaRepo.agregar(p.ID, ingA.ID, "1")

	for i := 0; i < 3; i++ {
		resp, err := svc.Capacidad(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.MaxUnidades)
		assert.Equal(t, ingA.ID.String(), resp.IngredienteLimitanteID,
			"el empate debe resolverse siempre por el primer mínimo en orden de ingrediente_id")
	}
}

func TestCapacidad_LecturaIdempotente(t *testing.T) {
	ingRepo, prodRepo, recetaRepo, svc := setupCosteo(t)
	a := ingRepo.agregar("Harina", "10", "1.00", "0")
	p := prodRepo.agregar("Pan", "100.00", 0, 0)
	recetaRepo.agregar(p.ID, a.ID, "3")

	r1, err := svc.Capacidad(context.Background(), p.ID)
	require.NoError(t, err)
	r2, err := svc.Capacidad(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
	assert.True(t, ingRepo.items[a.ID].StockActual.Equal(dec("10")), "la lectura no muta stock")
}

func TestRentabilidad_OrdenaPorMargenYDejaSinRecetaAlFinal(t *testing.T) {
	ingRepo, prodRepo, recetaRepo, svc := setupCosteo(t)
	harina := ingRepo.agregar("Harina", "100", "100.00", "0")

	alto := prodRepo.agregar("Margen Alto", "1000.00", 0, 0)
	recetaRepo.agregar(alto.ID, harina.ID, "1") // costo 100 → 90 %

	bajo := prodRepo.agregar("Margen Bajo", "200.00", 0, 0)
	recetaRepo.agregar(bajo.ID, harina.ID, "1") // costo 100 → 50 %

	prodRepo.agregar("Zeta Sin Receta", "300.00", 0, 0)
	prodRepo.agregar("Alfa Sin Receta", "300.00", 0, 0)

	items, err := svc.Rentabilidad(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "Margen Alto", items[0].Nombre)
	assert.True(t, items[0].MargenPct.Equal(dec("90.00")))
	assert.Equal(t, "Margen Bajo", items[1].Nombre)
	assert.True(t, items[1].MargenPct.Equal(dec("50.00")))

	// Sin receta: señalizados, al final, en orden alfabético; nunca "100 % de margen"
	assert.Equal(t, "Alfa Sin Receta", items[2].Nombre)
	assert.True(t, items[2].SinReceta)
	assert.Nil(t, items[2].MargenPct)
	assert.Equal(t, "Zeta Sin Receta", items[3].Nombre)
	assert.True(t, items[3].SinReceta)
}
