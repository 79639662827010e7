package handler

import (
	"net/http"

	"blendfabrica/internal/apierror"
	"blendfabrica/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportesHandler serves the derived views: cost/margin per product,
// production capacity, and the profitability ranking.
type ReportesHandler struct{ svc service.CosteoService }

func NewReportesHandler(svc service.CosteoService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Costeo returns recipe cost, margin and margin percent for one product.
func (h *ReportesHandler) Costeo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Costeo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Capacidad returns how many units the current ingredient stock can produce
// and which ingredient runs out first.
func (h *ReportesHandler) Capacidad(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Capacidad(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rentabilidad ranks every active product by margin percent, recipeless
// products last.
func (h *ReportesHandler) Rentabilidad(c *gin.Context) {
	resp, err := h.svc.Rentabilidad(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
