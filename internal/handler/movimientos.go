package handler

import (
	"net/http"
	"strconv"

	"blendfabrica/internal/apierror"
	"blendfabrica/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MovimientosHandler exposes the product stock movement ledger (production,
// sales, manual adjustments). Read-only: movements are written by the
// services as part of their transactions.
type MovimientosHandler struct{ repo repository.MovimientoStockRepository }

func NewMovimientosHandler(repo repository.MovimientoStockRepository) *MovimientosHandler {
	return &MovimientosHandler{repo: repo}
}

func (h *MovimientosHandler) Listar(c *gin.Context) {
	var filter repository.MovimientoStockFilter
	if raw := c.Query("producto_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("producto_id invalido"))
			return
		}
		filter.ProductoID = &id
	}
	filter.Tipo = c.Query("tipo")
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	movimientos, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  movimientos,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}
