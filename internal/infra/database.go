package infra

import (
	"fmt"

	"blendfabrica/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (CHECK constraints backing the non-negativity
// invariant).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the schema. Shared with integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Ingrediente{},
		&model.Producto{},
		&model.RecetaLinea{},
		&model.Compra{},
		&model.Produccion{},
		&model.ProduccionDetalle{},
		&model.Venta{},
		&model.VentaItem{},
		&model.MovimientoStock{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// The CHECK constraints are the database-level backstop for the invariant
// that stock never goes below zero: even a bug in the guarded-decrement
// queries cannot commit a negative stock.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"check ingredientes.stock_actual >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ingredientes_stock_no_negativo') THEN
    ALTER TABLE ingredientes
      ADD CONSTRAINT chk_ingredientes_stock_no_negativo CHECK (stock_actual >= 0);
  END IF;
END $$`},
		{"check ingredientes.costo_unitario >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ingredientes_costo_no_negativo') THEN
    ALTER TABLE ingredientes
      ADD CONSTRAINT chk_ingredientes_costo_no_negativo CHECK (costo_unitario >= 0);
  END IF;
END $$`},
		{"check productos.stock_actual >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_stock_no_negativo') THEN
    ALTER TABLE productos
      ADD CONSTRAINT chk_productos_stock_no_negativo CHECK (stock_actual >= 0);
  END IF;
END $$`},
		{"check productos.precio_venta > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_precio_positivo') THEN
    ALTER TABLE productos
      ADD CONSTRAINT chk_productos_precio_positivo CHECK (precio_venta > 0);
  END IF;
END $$`},
		{"check receta_lineas.cantidad_por_unidad > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_receta_cantidad_positiva') THEN
    ALTER TABLE receta_lineas
      ADD CONSTRAINT chk_receta_cantidad_positiva CHECK (cantidad_por_unidad > 0);
  END IF;
END $$`},
		{"check compras.cantidad > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_compras_cantidad_positiva') THEN
    ALTER TABLE compras
      ADD CONSTRAINT chk_compras_cantidad_positiva CHECK (cantidad > 0);
  END IF;
END $$`},
		{"check producciones.cantidad > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_producciones_cantidad_positiva') THEN
    ALTER TABLE producciones
      ADD CONSTRAINT chk_producciones_cantidad_positiva CHECK (cantidad > 0);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
