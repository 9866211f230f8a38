package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneralError(t *testing.T) {
	cause := errors.New("insert failed")
	err := NewGeneralError(BlogCreateError, cause)

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, BlogCreateError, err.MessageKey)
	assert.True(t, IsGeneralError(err))
	assert.Contains(t, err.Error(), "There was a problem creating this blog")
	assert.Contains(t, err.GetFullError(), "insert failed")
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name           string
		key            string
		acceptLanguage string
		want           string
	}{
		{"default language", BlogDeleteError, "", "There was a problem deleting this blog. Please try again."},
		{"spanish", BlogUpdateError, "es-MX,es;q=0.9", "Hubo un problema al actualizar este blog. Por favor, inténtelo de nuevo."},
		{"unsupported falls back to english", BlogCreateError, "de-DE", "There was a problem creating this blog. Please try again."},
		{"unknown key", "exceptions.unknown", "en", "exceptions.unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Translate(tt.key, tt.acceptLanguage))
		})
	}
}

func TestNewDatabaseError(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
	}{
		{"record not found", errors.New("record not found"), http.StatusNotFound},
		{"postgres duplicate", errors.New("ERROR: duplicate key value violates unique constraint"), http.StatusConflict},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), http.StatusBadRequest},
		{"connection refused", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable},
		{"anything else", errors.New("syntax error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("find", "blog", tt.cause)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.ErrorIs(t, err.Cause, tt.cause)
		})
	}
}

func TestSentinelMatching(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("blog not found")))
	assert.True(t, IsNotFound(NewNotFound("blog")))
	assert.True(t, IsForbidden(NewForbiddenError("view-blog")))
	assert.True(t, IsBadRequest(NewBadRequestError("invalid blogID")))
	assert.True(t, IsUnauthorized(NewUnauthorizedError("missing token")))
	assert.True(t, IsStorageError(NewStorageError("store", "img/blog/a.png", errors.New("disk full"))))
	assert.True(t, IsInvalidFieldError(NewInvalidFieldError("status", "unknown")))
	assert.True(t, IsMissingRequiredFieldError(NewMissingRequiredFieldError("name")))
}
