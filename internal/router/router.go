package router

import (
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/config"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/handler"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Productos  *handler.ProductoHandler
	Inventario *handler.InventarioHandler
	Ventas     *handler.VentaHandler
	Compras    *handler.CompraHandler
	Devols     *handler.DevolucionHandler
	Caja       *handler.CajaHandler
	Catalogo   *handler.CatalogoHandler
	Health     *handler.HealthHandler
}

// New builds the gin engine with the full route table. Cashiers can sell and
// operate their drawer; supervisors additionally manage inventory, purchases
// and returns; administrators manage users and catalogs.
func New(cfg *config.Config, h Handlers) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())

	r.GET("/health", h.Health.Check)

	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api/v1")

	// Public, rate limited.
	publico := api.Group("")
	publico.Use(middleware.RateLimit(10, 20))
	publico.POST("/auth/login", h.Auth.Login)
	publico.POST("/auth/refresh", h.Auth.Refresh)
	publico.GET("/precios/:codigo", h.Productos.ConsultarPrecio)

	auth := api.Group("")
	auth.Use(middleware.RequireAuth(cfg.JWTSecret))

	cajero := auth.Group("")
	cajero.Use(middleware.RequireRole("cajero", "supervisor", "administrador"))
	{
		cajero.POST("/ventas", h.Ventas.Registrar)
		cajero.GET("/ventas", h.Ventas.Listar)
		cajero.GET("/ventas/:id", h.Ventas.Obtener)

		cajero.POST("/caja/abrir", h.Caja.Abrir)
		cajero.POST("/caja/movimientos", h.Caja.RegistrarMovimiento)
		cajero.POST("/caja/cerrar", h.Caja.Cerrar)
		cajero.GET("/caja/sesiones", h.Caja.ListarSesiones)
		cajero.GET("/caja/sesiones/:id", h.Caja.ObtenerSesion)
		cajero.GET("/cajas", h.Caja.ListarCajas)

		cajero.GET("/productos", h.Productos.Listar)
		cajero.GET("/productos/:id", h.Productos.Obtener)

		cajero.GET("/clientes", h.Catalogo.ListarClientes)
		cajero.POST("/clientes", h.Catalogo.CrearCliente)
		cajero.GET("/metodos-pago", h.Catalogo.ListarMetodosPago)
	}

	supervisor := auth.Group("")
	supervisor.Use(middleware.RequireRole("supervisor", "administrador"))
	{
		supervisor.POST("/compras", h.Compras.Registrar)
		supervisor.GET("/compras", h.Compras.Listar)
		supervisor.GET("/compras/:id", h.Compras.Obtener)

		supervisor.POST("/devoluciones", h.Devols.Registrar)
		supervisor.GET("/devoluciones", h.Devols.Listar)
		supervisor.GET("/devoluciones/:id", h.Devols.Obtener)

		supervisor.POST("/productos", h.Productos.Crear)
		supervisor.PUT("/productos/:id", h.Productos.Actualizar)
		supervisor.DELETE("/productos/:id", h.Productos.Desactivar)
		supervisor.POST("/productos/:id/reactivar", h.Productos.Reactivar)

		supervisor.POST("/inventario/ajustes", h.Inventario.AjustarStock)
		supervisor.GET("/inventario/alertas", h.Inventario.Alertas)
		supervisor.GET("/inventario/movimientos/:producto_id", h.Inventario.Movimientos)

		supervisor.GET("/proveedores", h.Catalogo.ListarProveedores)
		supervisor.POST("/proveedores", h.Catalogo.CrearProveedor)
	}

	admin := auth.Group("")
	admin.Use(middleware.RequireRole("administrador"))
	{
		admin.POST("/usuarios", h.Auth.CrearUsuario)
		admin.GET("/usuarios", h.Auth.ListarUsuarios)
		admin.PUT("/usuarios/:id", h.Auth.ActualizarUsuario)
		admin.DELETE("/usuarios/:id", h.Auth.DesactivarUsuario)

		admin.POST("/cajas", h.Caja.CrearCaja)

		admin.GET("/sucursales", h.Catalogo.ListarSucursales)
		admin.POST("/sucursales", h.Catalogo.CrearSucursal)
		admin.GET("/categorias", h.Catalogo.ListarCategorias)
		admin.POST("/categorias", h.Catalogo.CrearCategoria)
	}

	return r
}
