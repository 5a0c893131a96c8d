package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/apierror"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/domain"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Let numeric tags (min, gt, ...) apply to decimal fields.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
// On failure it writes the 400 response and returns false.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("cuerpo de la solicitud inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
			return false
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	return true
}

// respondError translates the domain error taxonomy into HTTP status codes.
func respondError(c *gin.Context, err error) {
	var (
		validacion  *domain.ValidationError
		noEncontado *domain.NotFoundError
		refInvalida *domain.InvalidReturnReferenceError
		sinStock    *domain.InsufficientStockError
		sobreDev    *domain.OverReturnError
		yaAbierta   *domain.SessionAlreadyOpenError
		cerrada     *domain.SessionClosedError
		conflicto   *domain.ConcurrencyConflictError
	)
	switch {
	case errors.As(err, &validacion):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.As(err, &noEncontado), errors.As(err, &refInvalida):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &sinStock),
		errors.As(err, &sobreDev),
		errors.As(err, &yaAbierta),
		errors.As(err, &cerrada),
		errors.As(err, &conflicto):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		log.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Msg("error interno")
		c.JSON(http.StatusInternalServerError, apierror.New("error interno del servidor"))
	}
}

// currentUserID reads the authenticated user id injected by RequireAuth.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(middleware.CtxUserID)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("usuario no autenticado"))
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a :id style path parameter.
func pathUUID(c *gin.Context, nombre string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(nombre))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(nombre+" inválido"))
		return uuid.Nil, false
	}
	return id, true
}
