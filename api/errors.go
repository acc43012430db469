package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	Status string            `json:"status,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

// writeError maps the error taxonomy onto HTTP statuses. Unknown errors are
// logged and hidden behind a generic message.
func writeError(c *gin.Context, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse{Error: strings.TrimPrefix(err.Error(), apperr.ErrConflict.Error()+": ")})
	case errors.Is(err, apperr.ErrDeliveryFailed):
		loggerFrom(c).Error(c.Request.Context(), "notification delivery failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "could not send the email, try again later"})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse{Error: "forbidden"})
	default:
		loggerFrom(c).Error(c.Request.Context(), "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// bindError turns gin binding failures into a ValidationError.
func bindError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		v := &apperr.ValidationError{}
		for _, fe := range ves {
			v.Add(fe.Field(), fieldMessage(fe))
		}
		return v
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return apperr.NewValidation(typeErr.Field, "has the wrong type")
	case errors.As(err, &syntaxErr):
		return apperr.NewValidation("body", "malformed JSON")
	}
	return apperr.NewValidation("body", err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return "is invalid"
	}
}
