package handler

import (
	"net/http"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/repository"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler serves the reference entities (clientes, métodos de pago,
// proveedores, sucursales, categorías). They are plain CRUD with no
// transactional behavior, so the handlers talk to the repositories directly.
type CatalogoHandler struct {
	clientes    repository.ClienteRepository
	metodosPago repository.MetodoPagoRepository
	proveedores repository.ProveedorRepository
	sucursales  repository.SucursalRepository
	categorias  repository.CategoriaRepository
}

func NewCatalogoHandler(
	clientes repository.ClienteRepository,
	metodosPago repository.MetodoPagoRepository,
	proveedores repository.ProveedorRepository,
	sucursales repository.SucursalRepository,
	categorias repository.CategoriaRepository,
) *CatalogoHandler {
	return &CatalogoHandler{
		clientes:    clientes,
		metodosPago: metodosPago,
		proveedores: proveedores,
		sucursales:  sucursales,
		categorias:  categorias,
	}
}

func (h *CatalogoHandler) CrearCliente(c *gin.Context) {
	var cliente model.Cliente
	if !bindAndValidate(c, &cliente) {
		return
	}
	if err := h.clientes.Create(c.Request.Context(), &cliente); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cliente)
}

func (h *CatalogoHandler) ListarClientes(c *gin.Context) {
	clientes, err := h.clientes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clientes)
}

func (h *CatalogoHandler) CrearMetodoPago(c *gin.Context) {
	var metodo model.MetodoPago
	if !bindAndValidate(c, &metodo) {
		return
	}
	if err := h.metodosPago.Create(c.Request.Context(), &metodo); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, metodo)
}

func (h *CatalogoHandler) ListarMetodosPago(c *gin.Context) {
	metodos, err := h.metodosPago.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metodos)
}

func (h *CatalogoHandler) CrearProveedor(c *gin.Context) {
	var proveedor model.Proveedor
	if !bindAndValidate(c, &proveedor) {
		return
	}
	if err := h.proveedores.Create(c.Request.Context(), &proveedor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proveedor)
}

func (h *CatalogoHandler) ListarProveedores(c *gin.Context) {
	proveedores, err := h.proveedores.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, proveedores)
}

func (h *CatalogoHandler) CrearSucursal(c *gin.Context) {
	var sucursal model.Sucursal
	if !bindAndValidate(c, &sucursal) {
		return
	}
	if err := h.sucursales.Create(c.Request.Context(), &sucursal); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sucursal)
}

func (h *CatalogoHandler) ListarSucursales(c *gin.Context) {
	sucursales, err := h.sucursales.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sucursales)
}

func (h *CatalogoHandler) CrearCategoria(c *gin.Context) {
	var categoria model.Categoria
	if !bindAndValidate(c, &categoria) {
		return
	}
	if err := h.categorias.Create(c.Request.Context(), &categoria); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, categoria)
}

func (h *CatalogoHandler) ListarCategorias(c *gin.Context) {
	categorias, err := h.categorias.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categorias)
}
