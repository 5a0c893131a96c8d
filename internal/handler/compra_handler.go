package handler

import (
	"net/http"
	"strconv"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type CompraHandler struct {
	compras service.CompraService
}

func NewCompraHandler(compras service.CompraService) *CompraHandler {
	return &CompraHandler{compras: compras}
}

// Registrar godoc
// @Summary Registra una compra a proveedor
// @Tags compras
// @Accept json
// @Produce json
// @Param compra body dto.RegistrarCompraRequest true "Compra"
// @Success 201 {object} dto.CompraResponse
// @Failure 400 {object} apierror.APIError
// @Router /compras [post]
// @Security BearerAuth
func (h *CompraHandler) Registrar(c *gin.Context) {
	usuarioID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	compra, err := h.compras.RegistrarCompra(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, compra)
}

func (h *CompraHandler) Obtener(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	compra, err := h.compras.ObtenerCompra(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, compra)
}

func (h *CompraHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	lista, err := h.compras.ListarCompras(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lista)
}
