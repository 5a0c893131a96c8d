package handler

import (
	"net/http"
	"strconv"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type DevolucionHandler struct {
	devoluciones service.DevolucionService
}

func NewDevolucionHandler(devoluciones service.DevolucionService) *DevolucionHandler {
	return &DevolucionHandler{devoluciones: devoluciones}
}

// Registrar godoc
// @Summary Registra una devolución o cambio contra una factura
// @Tags devoluciones
// @Accept json
// @Produce json
// @Param devolucion body dto.RegistrarDevolucionRequest true "Devolución"
// @Success 201 {object} dto.DevolucionResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /devoluciones [post]
// @Security BearerAuth
func (h *DevolucionHandler) Registrar(c *gin.Context) {
	usuarioID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.RegistrarDevolucionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	dev, err := h.devoluciones.RegistrarDevolucion(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dev)
}

func (h *DevolucionHandler) Obtener(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	dev, err := h.devoluciones.ObtenerDevolucion(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

func (h *DevolucionHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	lista, err := h.devoluciones.ListarDevoluciones(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lista)
}
