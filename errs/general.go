package errs

import (
	"errors"
	"net/http"

	"golang.org/x/text/language"
)

// Message keys for the generic operation errors.
const (
	BlogCreateError = "exceptions.backend.blogs.create_error"
	BlogUpdateError = "exceptions.backend.blogs.update_error"
	BlogDeleteError = "exceptions.backend.blogs.delete_error"
	AccessDenied    = "auth.general_error"
)

var ErrGeneral = errors.New("operation failed")

var supportedLanguages = []language.Tag{
	language.English, // default
	language.Spanish,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

var messages = map[language.Tag]map[string]string{
	language.English: {
		BlogCreateError: "There was a problem creating this blog. Please try again.",
		BlogUpdateError: "There was a problem updating this blog. Please try again.",
		BlogDeleteError: "There was a problem deleting this blog. Please try again.",
		AccessDenied:    "You do not have access to do that.",
	},
	language.Spanish: {
		BlogCreateError: "Hubo un problema al crear este blog. Por favor, inténtelo de nuevo.",
		BlogUpdateError: "Hubo un problema al actualizar este blog. Por favor, inténtelo de nuevo.",
		BlogDeleteError: "Hubo un problema al eliminar este blog. Por favor, inténtelo de nuevo.",
		AccessDenied:    "No tiene acceso para hacer eso.",
	},
}

// NewGeneralError is the single "operation failed" error surfaced by blog writes.
// The user facing message is resolved from messageKey at render time.
func NewGeneralError(messageKey string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrGeneral,
		Details:    Translate(messageKey, ""),
		Cause:      cause,
		MessageKey: messageKey,
	}
}

func IsGeneralError(err error) bool {
	return errors.Is(err, ErrGeneral)
}

// Translate resolves a message key for the best match of an Accept-Language header.
// Unknown keys are returned unchanged.
func Translate(key, acceptLanguage string) string {
	tags, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	_, idx, _ := languageMatcher.Match(tags...)

	if msg, ok := messages[supportedLanguages[idx]][key]; ok {
		return msg
	}
	if msg, ok := messages[language.English][key]; ok {
		return msg
	}
	return key
}
