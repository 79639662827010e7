package service

import (
	"bytes"
	"context"
	"sort"

	"blendfabrica/internal/model"
	"blendfabrica/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. DB() returns nil, so runTx executes the
// callback without a real transaction; atomicity is asserted on observable
// state instead. Find methods return copies, like a real row scan would.

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ─── Ingredientes ────────────────────────────────────────────────────────────

type stubIngredienteRepo struct {
	items map[uuid.UUID]*model.Ingrediente
}

func newStubIngredienteRepo() *stubIngredienteRepo {
	return &stubIngredienteRepo{items: make(map[uuid.UUID]*model.Ingrediente)}
}

func (r *stubIngredienteRepo) agregar(nombre string, stock, costo, minimo string) *model.Ingrediente {
	i := &model.Ingrediente{
		ID:            uuid.New(),
		Nombre:        nombre,
		UnidadMedida:  model.UnidadGramo,
		StockActual:   dec(stock),
		StockMinimo:   dec(minimo),
		CostoUnitario: dec(costo),
		Activo:        true,
	}
	r.items[i.ID] = i
	return i
}

func (r *stubIngredienteRepo) Create(ctx context.Context, i *model.Ingrediente) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	copia := *i
	r.items[i.ID] = &copia
	return nil
}

func (r *stubIngredienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ingrediente, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *i
	return &copia, nil
}

func (r *stubIngredienteRepo) List(ctx context.Context, filter repository.IngredienteFilter) ([]model.Ingrediente, int64, error) {
	out := make([]model.Ingrediente, 0, len(r.items))
	for _, i := range r.items {
		out = append(out, *i)
	}
	return out, int64(len(out)), nil
}

func (r *stubIngredienteRepo) ListarCriticos(ctx context.Context) ([]model.Ingrediente, error) {
	out := make([]model.Ingrediente, 0)
	for _, i := range r.items {
		if i.Activo && i.EsCritico() {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Nombre < out[b].Nombre })
	return out, nil
}

func (r *stubIngredienteRepo) Update(ctx context.Context, i *model.Ingrediente) error {
	copia := *i
	r.items[i.ID] = &copia
	return nil
}

func (r *stubIngredienteRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if i, ok := r.items[id]; ok {
		i.Activo = false
	}
	return nil
}

func (r *stubIngredienteRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	if i, ok := r.items[id]; ok {
		i.Activo = true
	}
	return nil
}

func (r *stubIngredienteRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Ingrediente, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubIngredienteRepo) ActualizarStockCostoTx(tx *gorm.DB, id uuid.UUID, stock, costo decimal.Decimal) error {
	i, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.StockActual = stock
	i.CostoUnitario = costo
	return nil
}

func (r *stubIngredienteRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (int64, error) {
	i, ok := r.items[id]
	if !ok {
		return 0, nil
	}
	if i.StockActual.LessThan(cantidad) {
		return 0, nil
	}
	i.StockActual = i.StockActual.Sub(cantidad)
	return 1, nil
}

func (r *stubIngredienteRepo) DB() *gorm.DB { return nil }

// ─── Productos ───────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	items map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{items: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) agregar(nombre, precio string, stock, minimo int) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Nombre:      nombre,
		PrecioVenta: dec(precio),
		StockActual: stock,
		StockMinimo: minimo,
		Activo:      true,
	}
	r.items[p.ID] = p
	return p
}

func (r *stubProductoRepo) Create(ctx context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copia := *p
	r.items[p.ID] = &copia
	return nil
}

func (r *stubProductoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *stubProductoRepo) List(ctx context.Context, filter repository.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListarActivos(ctx context.Context) ([]model.Producto, error) {
	out := make([]model.Producto, 0)
	for _, p := range r.items {
		if p.Activo {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Nombre < out[b].Nombre })
	return out, nil
}

func (r *stubProductoRepo) ListarCriticos(ctx context.Context) ([]model.Producto, error) {
	out := make([]model.Producto, 0)
	for _, p := range r.items {
		if p.Activo && p.StockActual <= p.StockMinimo {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Nombre < out[b].Nombre })
	return out, nil
}

func (r *stubProductoRepo) Update(ctx context.Context, p *model.Producto) error {
	copia := *p
	r.items[p.ID] = &copia
	return nil
}

func (r *stubProductoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if p, ok := r.items[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	if p, ok := r.items[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) IncrementarStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockActual += delta
	return nil
}

func (r *stubProductoRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error) {
	p, ok := r.items[id]
	if !ok {
		return 0, nil
	}
	if p.StockActual < cantidad {
		return 0, nil
	}
	p.StockActual -= cantidad
	return 1, nil
}

func (r *stubProductoRepo) ActualizarCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	p, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CostoUnitario = costo
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ─── Recetas ─────────────────────────────────────────────────────────────────

type stubRecetaRepo struct {
	lineas []*model.RecetaLinea
	ing    *stubIngredienteRepo
}

func newStubRecetaRepo(ing *stubIngredienteRepo) *stubRecetaRepo {
	return &stubRecetaRepo{ing: ing}
}

func (r *stubRecetaRepo) agregar(productoID, ingredienteID uuid.UUID, cantidad string) *model.RecetaLinea {
	l := &model.RecetaLinea{
		ID:                uuid.New(),
		ProductoID:        productoID,
		IngredienteID:     ingredienteID,
		CantidadPorUnidad: dec(cantidad),
	}
	r.lineas = append(r.lineas, l)
	return l
}

func (r *stubRecetaRepo) CrearLinea(ctx context.Context, l *model.RecetaLinea) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	copia := *l
	r.lineas = append(r.lineas, &copia)
	return nil
}

func (r *stubRecetaRepo) FindLineaByID(ctx context.Context, id uuid.UUID) (*model.RecetaLinea, error) {
	for _, l := range r.lineas {
		if l.ID == id {
			copia := *l
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRecetaRepo) FindLinea(ctx context.Context, productoID, ingredienteID uuid.UUID) (*model.RecetaLinea, error) {
	for _, l := range r.lineas {
		if l.ProductoID == productoID && l.IngredienteID == ingredienteID {
			copia := *l
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ListarPorProducto mirrors the SQL contract: lines ordered by ingrediente_id
// ASC with the ingredient preloaded fresh on every call.
func (r *stubRecetaRepo) ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.RecetaLinea, error) {
	out := make([]model.RecetaLinea, 0)
	for _, l := range r.lineas {
		if l.ProductoID != productoID {
			continue
		}
		copia := *l
		if ing, err := r.ing.FindByID(ctx, l.IngredienteID); err == nil {
			copia.Ingrediente = ing
		}
		out = append(out, copia)
	}
	sort.Slice(out, func(a, b int) bool {
		return bytes.Compare(out[a].IngredienteID[:], out[b].IngredienteID[:]) < 0
	})
	return out, nil
}

func (r *stubRecetaRepo) ProductosQueUsan(ctx context.Context, ingredienteID uuid.UUID) ([]uuid.UUID, error) {
	vistos := make(map[uuid.UUID]bool)
	out := make([]uuid.UUID, 0)
	for _, l := range r.lineas {
		if l.IngredienteID == ingredienteID && !vistos[l.ProductoID] {
			vistos[l.ProductoID] = true
			out = append(out, l.ProductoID)
		}
	}
	return out, nil
}

func (r *stubRecetaRepo) ActualizarCantidad(ctx context.Context, id uuid.UUID, cantidad decimal.Decimal) error {
	for _, l := range r.lineas {
		if l.ID == id {
			l.CantidadPorUnidad = cantidad
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubRecetaRepo) EliminarLinea(ctx context.Context, id uuid.UUID) error {
	for idx, l := range r.lineas {
		if l.ID == id {
			r.lineas = append(r.lineas[:idx], r.lineas[idx+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ─── Compras ─────────────────────────────────────────────────────────────────

type stubCompraRepo struct {
	compras []model.Compra
}

func (r *stubCompraRepo) CreateTx(tx *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.compras = append(r.compras, *c)
	return nil
}

func (r *stubCompraRepo) List(ctx context.Context, filter repository.CompraFilter) ([]model.Compra, int64, error) {
	out := make([]model.Compra, 0, len(r.compras))
	for _, c := range r.compras {
		if filter.IngredienteID != nil && c.IngredienteID != *filter.IngredienteID {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

// ─── Producciones ────────────────────────────────────────────────────────────

type stubProduccionRepo struct {
	producciones []model.Produccion
}

func (r *stubProduccionRepo) CreateTx(tx *gorm.DB, p *model.Produccion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Detalles {
		if p.Detalles[i].ID == uuid.Nil {
			p.Detalles[i].ID = uuid.New()
		}
		p.Detalles[i].ProduccionID = p.ID
	}
	r.producciones = append(r.producciones, *p)
	return nil
}

func (r *stubProduccionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produccion, error) {
	for i := range r.producciones {
		if r.producciones[i].ID == id {
			copia := r.producciones[i]
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProduccionRepo) List(ctx context.Context, filter repository.ProduccionFilter) ([]model.Produccion, int64, error) {
	out := make([]model.Produccion, 0, len(r.producciones))
	for _, p := range r.producciones {
		if filter.ProductoID != nil && p.ProductoID != *filter.ProductoID {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProduccionRepo) DB() *gorm.DB { return nil }

// ─── Ventas ──────────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas []model.Venta
}

func (r *stubVentaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Items {
		if v.Items[i].ID == uuid.Nil {
			v.Items[i].ID = uuid.New()
		}
		v.Items[i].VentaID = v.ID
	}
	r.ventas = append(r.ventas, *v)
	return nil
}

func (r *stubVentaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	for i := range r.ventas {
		if r.ventas[i].ID == id {
			copia := r.ventas[i]
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVentaRepo) List(ctx context.Context, filter repository.VentaFilter) ([]model.Venta, int64, error) {
	return append([]model.Venta(nil), r.ventas...), int64(len(r.ventas)), nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

// ─── Movimientos ─────────────────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(ctx context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	out := make([]model.MovimientoStock, 0, len(r.movimientos))
	for _, m := range r.movimientos {
		if filter.ProductoID != nil && m.ProductoID != *filter.ProductoID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}
