package handler

import (
	"net/http"
	"strconv"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/apierror"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct {
	cajas service.CajaService
}

func NewCajaHandler(cajas service.CajaService) *CajaHandler {
	return &CajaHandler{cajas: cajas}
}

type crearCajaRequest struct {
	Nombre     string `json:"nombre"      validate:"required,min=2"`
	SucursalID string `json:"sucursal_id" validate:"required,uuid"`
}

func (h *CajaHandler) CrearCaja(c *gin.Context) {
	var req crearCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("sucursal_id inválido"))
		return
	}
	caja, err := h.cajas.CrearCaja(c.Request.Context(), req.Nombre, sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, caja)
}

func (h *CajaHandler) ListarCajas(c *gin.Context) {
	cajas, err := h.cajas.ListarCajas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cajas)
}

// Abrir godoc
// @Summary Abre una sesión de caja
// @Tags caja
// @Accept json
// @Produce json
// @Param apertura body dto.AbrirCajaRequest true "Apertura"
// @Success 201 {object} dto.SesionCajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /caja/abrir [post]
// @Security BearerAuth
func (h *CajaHandler) Abrir(c *gin.Context) {
	usuarioID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sesion, err := h.cajas.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sesion)
}

// RegistrarMovimiento godoc
// @Summary Registra un ingreso o egreso manual en la sesión
// @Tags caja
// @Accept json
// @Produce json
// @Param movimiento body dto.MovimientoManualRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoCajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /caja/movimientos [post]
// @Security BearerAuth
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	mov, err := h.cajas.RegistrarMovimiento(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mov)
}

// Cerrar godoc
// @Summary Cierra una sesión de caja y calcula el arqueo
// @Tags caja
// @Accept json
// @Produce json
// @Param cierre body dto.CerrarCajaRequest true "Cierre"
// @Success 200 {object} dto.CierreCajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /caja/cerrar [post]
// @Security BearerAuth
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cierre, err := h.cajas.Cerrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cierre)
}

func (h *CajaHandler) ObtenerSesion(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sesion, err := h.cajas.ObtenerSesion(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sesion)
}

func (h *CajaHandler) ListarSesiones(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	lista, err := h.cajas.ListarSesiones(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lista)
}
