package handler

import (
	"net/http"
	"strconv"

	"blendfabrica/internal/apierror"
	"blendfabrica/internal/dto"
	"blendfabrica/internal/infra"
	"blendfabrica/internal/repository"
	"blendfabrica/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProduccionesHandler struct {
	svc         service.ProduccionService
	repo        repository.ProduccionRepository
	storagePath string
}

func NewProduccionesHandler(svc service.ProduccionService, repo repository.ProduccionRepository, storagePath string) *ProduccionesHandler {
	return &ProduccionesHandler{svc: svc, repo: repo, storagePath: storagePath}
}

// Producir runs a production batch: consumes ingredient stock, increments
// product stock and records the batch with its derived unit cost.
func (h *ProduccionesHandler) Producir(c *gin.Context) {
	var req dto.ProducirRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Producir(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProduccionesHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProduccionesHandler) Listar(c *gin.Context) {
	var filter repository.ProduccionFilter
	if raw := c.Query("producto_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("producto_id invalido"))
			return
		}
		filter.ProductoID = &id
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

// DescargarPDF renders the batch report and streams it as a file download.
func (h *ProduccionesHandler) DescargarPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	p, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := infra.GenerarProduccionPDF(p, h.storagePath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "produccion_"+p.ID.String()+".pdf")
}
