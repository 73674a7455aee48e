package handlers

import (
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/google/uuid"
)

// pathIndex reads a non-negative line index from the route.
func pathIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		return 0, errors.BadRequestError("Invalid line index")
	}

	return index, nil
}

func pathLineID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, errors.BadRequestError("Invalid line ID format").WithError(err)
	}

	return id, nil
}

func pathID(r *http.Request, name string) (string, error) {
	id := r.PathValue(name)
	if id == "" {
		return "", errors.BadRequestError("Missing " + name)
	}

	return id, nil
}
