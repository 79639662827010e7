package handler

import (
	"net/http"
	"strconv"

	"blendfabrica/internal/apierror"
	"blendfabrica/internal/dto"
	"blendfabrica/internal/repository"
	"blendfabrica/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ComprasHandler records ingredient purchases. A purchase is nested under its
// ingredient (POST /ingredientes/:id/compras): the path names the row whose
// stock and average cost the entry mutates.
type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler {
	return &ComprasHandler{svc: svc}
}

func (h *ComprasHandler) Registrar(c *gin.Context) {
	ingredienteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarCompra(c.Request.Context(), ingredienteID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar returns the purchase ledger, optionally filtered by ingredient.
func (h *ComprasHandler) Listar(c *gin.Context) {
	var filter repository.CompraFilter
	if raw := c.Query("ingrediente_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("ingrediente_id invalido"))
			return
		}
		filter.IngredienteID = &id
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
