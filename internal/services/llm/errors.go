package llm

import (
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/genai"
)

// ErrMissingCredential indicates no API key is configured for the selected
// provider. The generation worker detects this up front and routes to the
// mock-content path instead of invoking the model.
var ErrMissingCredential = errors.New("llm: no API credential configured")

// authMessagePatterns are matched case-insensitively against error text when
// no typed status code is available. Providers are not consistent about
// surfacing 401s as structured errors.
var authMessagePatterns = []string{
	"401",
	"unauthorized",
	"authentication",
	"invalid api key",
	"invalid x-api-key",
	"api key not valid",
	"permission denied",
}

// IsAuthError reports whether err indicates an authentication or
// authorization failure at the model provider: a typed 401/403, or a
// recognizable message pattern.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		if anthropicErr.StatusCode == 401 || anthropicErr.StatusCode == 403 {
			return true
		}
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		if genaiErr.Code == 401 || genaiErr.Code == 403 {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range authMessagePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
