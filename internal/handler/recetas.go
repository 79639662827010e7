package handler

import (
	"net/http"

	"blendfabrica/internal/apierror"
	"blendfabrica/internal/dto"
	"blendfabrica/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecetasHandler exposes the recipe of a product. Routes are nested under
// /productos/:id/receta; individual lines are addressed by their own id.
type RecetasHandler struct{ svc service.RecetaService }

func NewRecetasHandler(svc service.RecetaService) *RecetasHandler {
	return &RecetasHandler{svc: svc}
}

func (h *RecetasHandler) Obtener(c *gin.Context) {
	productoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerReceta(c.Request.Context(), productoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecetasHandler) AgregarLinea(c *gin.Context) {
	productoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AgregarRecetaLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarLinea(c.Request.Context(), productoID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecetasHandler) ActualizarLinea(c *gin.Context) {
	lineaID, err := uuid.Parse(c.Param("lineaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarRecetaLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarLinea(c.Request.Context(), lineaID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecetasHandler) EliminarLinea(c *gin.Context) {
	lineaID, err := uuid.Parse(c.Param("lineaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarLinea(c.Request.Context(), lineaID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
