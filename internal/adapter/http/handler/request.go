package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bank-simulator/internal/adapter/http/dto"
	"bank-simulator/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// parseAccountNumber reads the :number path parameter.
func parseAccountNumber(c *gin.Context) (int64, error) {
	n, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil || n <= 0 {
		return 0, apperror.ErrInvalidAccount("account number must be a positive integer")
	}
	return n, nil
}

// parseLimit reads an optional non-negative ?limit= query parameter.
func parseLimit(c *gin.Context, def int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.Validation("limit must be a non-negative integer")
	}
	return n, nil
}

// bindJSON decodes and validates the body into req, then sanitizes its strings.
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.ErrPayloadTooLarge()
		}
		return apperror.Validation(err.Error())
	}
	dto.SanitizeStruct(req)
	return nil
}
