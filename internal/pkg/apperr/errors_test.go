package apperr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestImmutable(t *testing.T) {
	e := New(400, "INVALID_REQUEST", "invalid request: some or all request parameters are invalid")
	changedE := e.Msg("%s", "changed")
	assert.NotEqual(t, "changed", e.Message, "expect sentinel message to stay untouched")
	assert.Equal(t, "changed", changedE.Message)
}

func TestInvalidViolationsDoesNotLeakIntoSentinel(t *testing.T) {
	e := NewInvalidViolations([]string{"price"})
	assert.NotNil(t, e.Extras)
	assert.Nil(t, ErrInvalidReq.Extras, "expect sentinel extras to stay nil")
}

func TestIsMatchesDerivedErrors(t *testing.T) {
	derived := ErrNotFound.Msg("property %s not found", "01H")
	wrapped := errors.Wrap(derived, "loading property")

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrForbidden))
}
