package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pulsecrm/backend/internal/domain"
)

var validate = validator.New()

// decodeAndValidate decodes a JSON body into input and runs struct
// validation. Validation failures come back as *domain.ValidationError so
// response.FromError maps them uniformly.
func decodeAndValidate(r *http.Request, input any) error {
	if err := json.NewDecoder(r.Body).Decode(input); err != nil {
		return domain.NewValidationError("body", "invalid request body")
	}

	if err := validate.Struct(input); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			fields := make(map[string]string)
			for _, e := range validationErrors {
				field := e.Field()
				switch e.Tag() {
				case "required":
					fields[field] = "field is required"
				case "email":
					fields[field] = "invalid email format"
				case "url":
					fields[field] = "invalid URL"
				case "min":
					fields[field] = "must be at least " + e.Param()
				case "max":
					fields[field] = "must be at most " + e.Param()
				default:
					fields[field] = "validation failed on " + e.Tag()
				}
			}
			return &domain.ValidationError{Fields: fields}
		}
		return domain.NewValidationError("body", err.Error())
	}

	return nil
}

// urlID parses a UUID path parameter. A malformed ID reads as a nonexistent
// resource, not a bad request.
func urlID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, nil
}

// listParams reads limit/offset from the query string. Values are clamped
// later by Normalize; garbage reads as zero.
func listParams(r *http.Request) domain.ListParams {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return domain.ListParams{Limit: limit, Offset: offset}
}

// queryTime parses an RFC3339 or date-only query parameter.
func queryTime(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
