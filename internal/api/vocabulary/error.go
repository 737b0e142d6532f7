package vocabulary

import (
	"SignCoach/pkg/response"
	"net/http"
)

var (
	ErrSignNotFound = response.NewError(http.StatusNotFound, "sign not found")
)
