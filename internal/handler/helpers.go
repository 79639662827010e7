package handler

import (
	"errors"
	"net/http"
	"reflect"

	"blendfabrica/internal/apierror"
	"blendfabrica/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError translates domain errors into HTTP responses. Every handler
// funnels service errors through here so the status mapping lives in one
// place and internal errors are never leaked.
func respondError(c *gin.Context, err error) {
	var stockErr *service.StockInsuficienteError
	var stockProdErr *service.StockProductoInsuficienteError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, apierror.NewStock(stockErr.Error(), stockErr.Faltantes))
	case errors.As(err, &stockProdErr):
		c.JSON(http.StatusConflict, apierror.NewStock(stockProdErr.Error(), stockProdErr.Faltantes))
	case errors.Is(err, service.ErrSinReceta):
		c.JSON(http.StatusConflict, apierror.NewSinReceta(service.ErrSinReceta.Error()))
	case errors.Is(err, service.ErrConflicto):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNoEncontrado), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCantidadInvalida),
		errors.Is(err, service.ErrCostoInvalido),
		errors.Is(err, service.ErrEntradaInvalida):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		// Unexpected error: push onto the context for the ErrorHandler
		// middleware to log, respond with a generic 500.
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
