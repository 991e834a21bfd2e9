package handler

import (
	"errors"
	"net/http"

	"staffportal/internal/service"
)

// statusFor maps service-layer error classes onto HTTP status codes.
func statusFor(err error) int {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRequisitionNotFound),
		errors.Is(err, service.ErrLeaveNotFound),
		errors.Is(err, service.ErrStaffNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoAuthorizedSlot):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAlreadyDecided):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
