package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasonCarriedVerbatim(t *testing.T) {
	err := Unauthorized("Verified organization only!")
	assert.EqualError(t, err, "Verified organization only!")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrNotFound, CodeOf(NotFound("x")))
	assert.Equal(t, ErrUnauthorized, CodeOf(Unauthorized("x")))
	assert.Equal(t, ErrConflict, CodeOf(Conflict("x")))
	assert.Equal(t, ErrPolicy, CodeOf(Policy("x")))
	assert.Equal(t, ErrInternal, CodeOf(Internal(stderrors.New("boom"))))
	assert.Equal(t, ErrInternal, CodeOf(stderrors.New("foreign")))
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", Policy("Insufficient tokens!"))
	assert.Equal(t, ErrPolicy, CodeOf(err))
}

func TestInternalWraps(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
