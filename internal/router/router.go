package router

import (
	"time"

	"blendfabrica/internal/config"
	"blendfabrica/internal/handler"
	"blendfabrica/internal/middleware"
	"blendfabrica/internal/repository"
	"blendfabrica/internal/service"
	"blendfabrica/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	ingredienteRepo := repository.NewIngredienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	recetaRepo := repository.NewRecetaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	produccionRepo := repository.NewProduccionRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	cache := service.NewCosteoCache(rdb)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	ingredienteSvc := service.NewIngredienteService(ingredienteRepo, productoRepo)
	productoSvc := service.NewProductoService(productoRepo, cache)
	recetaSvc := service.NewRecetaService(recetaRepo, productoRepo, ingredienteRepo, cache)
	compraSvc := service.NewCompraService(ingredienteRepo, compraRepo, recetaRepo, cache)
	produccionSvc := service.NewProduccionService(produccionRepo, ingredienteRepo, productoRepo, recetaRepo, movimientoRepo, cache, dispatcher)
	costeoSvc := service.NewCosteoService(productoRepo, recetaRepo, cache)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, movimientoRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(db, rdb)
	ingredientesH := handler.NewIngredientesHandler(ingredienteSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	recetasH := handler.NewRecetasHandler(recetaSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	produccionesH := handler.NewProduccionesHandler(produccionSvc, produccionRepo, cfg.PDFStoragePath)
	ventasH := handler.NewVentasHandler(ventaSvc)
	reportesH := handler.NewReportesHandler(costeoSvc)
	movimientosH := handler.NewMovimientosHandler(movimientoRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", healthH.Check)

	v1 := r.Group("/v1")
	{
		ingredientes := v1.Group("/ingredientes")
		{
			ingredientes.POST("", ingredientesH.Crear)
			ingredientes.GET("", ingredientesH.Listar)
			ingredientes.GET("/:id", ingredientesH.ObtenerPorID)
			ingredientes.PUT("/:id", ingredientesH.Actualizar)
			ingredientes.DELETE("/:id", ingredientesH.Desactivar)
			ingredientes.PATCH("/:id/reactivar", ingredientesH.Reactivar)
			// Purchases are nested: the path names the ingredient being restocked
			ingredientes.POST("/:id/compras", comprasH.Registrar)
		}

		v1.GET("/compras", comprasH.Listar)

		productos := v1.Group("/productos")
		{
			productos.POST("", productosH.Crear)
			productos.GET("", productosH.Listar)
			productos.GET("/:id", productosH.ObtenerPorID)
			productos.PUT("/:id", productosH.Actualizar)
			productos.DELETE("/:id", productosH.Desactivar)
			productos.PATCH("/:id/reactivar", productosH.Reactivar)

			// Recipe of a product
			productos.GET("/:id/receta", recetasH.Obtener)
			productos.POST("/:id/receta", recetasH.AgregarLinea)
			productos.PUT("/:id/receta/:lineaId", recetasH.ActualizarLinea)
			productos.DELETE("/:id/receta/:lineaId", recetasH.EliminarLinea)

			// Derived views
			productos.GET("/:id/costeo", reportesH.Costeo)
			productos.GET("/:id/capacidad", reportesH.Capacidad)
		}

		producciones := v1.Group("/producciones")
		{
			producciones.POST("", produccionesH.Producir)
			producciones.GET("", produccionesH.Listar)
			producciones.GET("/:id", produccionesH.ObtenerPorID)
			producciones.GET("/:id/pdf", produccionesH.DescargarPDF)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.Registrar)
			ventas.GET("", ventasH.Listar)
			ventas.GET("/:id", ventasH.ObtenerPorID)
		}

		inventario := v1.Group("/inventario")
		{
			inventario.GET("/alertas", ingredientesH.Alertas)
			inventario.GET("/movimientos", movimientosH.Listar)
		}

		v1.GET("/reportes/rentabilidad", reportesH.Rentabilidad)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
