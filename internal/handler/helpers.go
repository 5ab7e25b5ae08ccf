package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/solanoize/optika-api/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		verr := apierror.NewValidation()
		for _, fe := range err.(validator.ValidationErrors) {
			verr.Add(fe.Field(), fe.Tag())
		}
		c.JSON(http.StatusUnprocessableEntity, verr)
		return false
	}
	return true
}

// respondServiceError maps service-layer errors onto HTTP responses.
// Validation errors carry their full field map; unknown errors go through
// the ErrorHandler middleware as a generic 500.
func respondServiceError(c *gin.Context, err error) {
	var verr *apierror.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, verr)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Not found"))
		return
	}
	_ = c.Error(err)
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is missing or malformed.
func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
