package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"coinhealth-api/pkg/coingecko"
)

func TestClassify(t *testing.T) {
	t.Run("client error keeps its status", func(t *testing.T) {
		status, msg := Classify(BadRequest("need %d ids", 1))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "need 1 ids", msg)
	})

	t.Run("upstream error keeps its status", func(t *testing.T) {
		status, msg := Classify(&coingecko.APIError{Status: http.StatusTooManyRequests, Message: "rate limited"})
		assert.Equal(t, http.StatusTooManyRequests, status)
		assert.Equal(t, "rate limited", msg)
	})

	t.Run("wrapped errors unwrap", func(t *testing.T) {
		wrapped := fmt.Errorf("outer: %w", Unauthorized("nope"))
		status, msg := Classify(wrapped)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "nope", msg)
	})

	t.Run("unknown errors become 500", func(t *testing.T) {
		status, _ := Classify(errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, status)
	})
}
