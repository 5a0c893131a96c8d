package handler

import (
	"net/http"
	"strconv"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct {
	inventario service.InventarioService
}

func NewInventarioHandler(inventario service.InventarioService) *InventarioHandler {
	return &InventarioHandler{inventario: inventario}
}

// AjustarStock godoc
// @Summary Ajuste manual de stock con motivo
// @Tags inventario
// @Accept json
// @Produce json
// @Param ajuste body dto.AjusteStockRequest true "Ajuste"
// @Success 201 {object} dto.MovimientoStockResponse
// @Failure 409 {object} apierror.APIError
// @Router /inventario/ajustes [post]
// @Security BearerAuth
func (h *InventarioHandler) AjustarStock(c *gin.Context) {
	usuarioID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	mov, err := h.inventario.AjustarStockManual(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mov)
}

func (h *InventarioHandler) Alertas(c *gin.Context) {
	alertas, err := h.inventario.ObtenerAlertas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alertas)
}

func (h *InventarioHandler) Movimientos(c *gin.Context) {
	productoID, ok := pathUUID(c, "producto_id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	movs, err := h.inventario.ListarMovimientos(c.Request.Context(), productoID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, movs)
}
