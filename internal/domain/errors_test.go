package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceErrorFormat(t *testing.T) {
	cause := errors.New("connection refused")
	err := SourceError("boiler_fault_codes", cause)

	assert.Equal(t, "[source] boiler_fault_codes query failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(RateLimitedError("quota exhausted", nil)))
	assert.True(t, IsRateLimited(fmt.Errorf("wrapped: %w", RateLimitedError("429", nil))))
	assert.False(t, IsRateLimited(APIError("bad request", nil)))
	assert.False(t, IsRateLimited(errors.New("plain")))
	assert.False(t, IsRateLimited(nil))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKindValidation, KindOf(ValidationError("bad input", nil)))
	assert.Equal(t, ErrorKindPersistence, KindOf(fmt.Errorf("outer: %w", PersistenceError("insert", nil))))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}
