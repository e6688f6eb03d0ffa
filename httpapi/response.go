package httpapi

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-router"
)

const (
	resultSuccess = "success"
	resultError   = "error"

	textCodeInternal = "INTERNAL_ERROR"
)

func successPayload(extra map[string]any) map[string]any {
	payload := map[string]any{
		"result": resultSuccess,
		"msg":    "",
	}
	for key, value := range extra {
		payload[key] = value
	}
	return payload
}

// errorPayload renders err into the error envelope. Authorization sentinels
// from the types package are mapped first. Rich errors keep their message and
// text code; anything else is an internal error whose details stay in the logs.
func errorPayload(err error) (int, map[string]any) {
	err = profilefield.MapAuthorizationError(err)
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		status := richErr.Code
		if status == 0 {
			status = statusForCategory(richErr)
		}
		code := richErr.TextCode
		if code == "" {
			code = http.StatusText(status)
		}
		return status, map[string]any{
			"result": resultError,
			"msg":    richErr.Message,
			"code":   code,
		}
	}
	return http.StatusInternalServerError, map[string]any{
		"result": resultError,
		"msg":    "Internal server error",
		"code":   textCodeInternal,
	}
}

func statusForCategory(richErr *goerrors.Error) int {
	switch richErr.Category {
	case goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func respond(c router.Context, logger types.Logger, extra map[string]any, err error) error {
	if err == nil {
		return c.JSON(http.StatusOK, successPayload(extra))
	}
	status, payload := errorPayload(err)
	if status >= http.StatusInternalServerError {
		logger.Error("profile fields request failed", err, "status", status)
	}
	return c.JSON(status, payload)
}

func fieldPayload(field types.ProfileField) map[string]any {
	return map[string]any{
		"id":         field.ID.String(),
		"name":       field.Name,
		"type":       int(field.Type),
		"hint":       field.Hint,
		"field_data": field.FieldData.Encode(),
		"order":      field.Order,
	}
}

func profileDataPayload(entry types.ProfileDataEntry) map[string]any {
	payload := fieldPayload(entry.Field)
	delete(payload, "order")
	if entry.Value != nil {
		payload["value"] = *entry.Value
	} else {
		payload["value"] = nil
	}
	return payload
}
