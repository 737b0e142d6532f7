package inference

import (
	"SignCoach/pkg/response"
	"net/http"
)

var (
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
	ErrInvalidJSON         = response.NewError(http.StatusBadRequest, "request body must be a JSON object")
)
