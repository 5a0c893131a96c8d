package handler

import (
	"net/http"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/apierror"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type VentaHandler struct {
	ventas service.VentaService
}

func NewVentaHandler(ventas service.VentaService) *VentaHandler {
	return &VentaHandler{ventas: ventas}
}

// Registrar godoc
// @Summary Registra una venta
// @Tags ventas
// @Accept json
// @Produce json
// @Param venta body dto.RegistrarVentaRequest true "Venta"
// @Success 201 {object} dto.FacturaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /ventas [post]
// @Security BearerAuth
func (h *VentaHandler) Registrar(c *gin.Context) {
	usuarioID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	factura, err := h.ventas.RegistrarVenta(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, factura)
}

// Obtener godoc
// @Summary Obtiene una factura por id
// @Tags ventas
// @Produce json
// @Param id path string true "Factura ID"
// @Success 200 {object} dto.FacturaResponse
// @Failure 404 {object} apierror.APIError
// @Router /ventas/{id} [get]
// @Security BearerAuth
func (h *VentaHandler) Obtener(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	factura, err := h.ventas.ObtenerFactura(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, factura)
}

// Listar godoc
// @Summary Lista facturas con filtro por fecha
// @Tags ventas
// @Produce json
// @Param fecha query string false "YYYY-MM-DD"
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Success 200 {object} dto.FacturaListResponse
// @Router /ventas [get]
// @Security BearerAuth
func (h *VentaHandler) Listar(c *gin.Context) {
	var filter dto.FacturaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parámetros de búsqueda inválidos"))
		return
	}
	lista, err := h.ventas.ListarFacturas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lista)
}
