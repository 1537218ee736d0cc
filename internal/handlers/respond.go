package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/emilythestrangee/subs/backend/internal/apperr"
)

// respondError writes err with the status of its kind. Internal failures are
// logged and answered with a generic message.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err, "method", c.Request.Method, "route", c.FullPath())
		c.JSON(status, gin.H{"error": "Something went wrong"})
		return
	}

	var e *apperr.Error
	if errors.As(err, &e) && len(e.Fields) > 0 {
		c.JSON(status, e.Fields)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON decodes the body into dst, turning validation failures into
// field errors keyed by JSON name.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			name := lowerFirst(fe.Field())
			fields[name] = fieldMessage(name, fe)
		}
		return apperr.Fields(apperr.KindInvalidInput, fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperr.Fields(apperr.KindInvalidInput, map[string]string{
			typeErr.Field: fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type),
		})
	}

	return apperr.InvalidInput("invalid request body")
}

func fieldMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	default:
		return name + " is invalid"
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

var bodyPolicy = bluemonday.UGCPolicy()

// sanitizeBody strips markup that is unsafe to render from user-written text.
func sanitizeBody(s string) string {
	return strings.TrimSpace(bodyPolicy.Sanitize(s))
}
