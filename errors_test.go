package sosumi_test

import (
	"errors"
	"testing"

	sosumi "github.com/NSHipster/sosumi.ai"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := sosumi.Errorf(sosumi.ENOTFOUND, "no documentation at %q", "/documentation/missing")

	assert.Equal(t, sosumi.ENOTFOUND, sosumi.ErrorCode(err))
	assert.Equal(t, "no documentation at \"/documentation/missing\"", sosumi.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sosumi.ErrorCode(nil))
}

func TestErrorCode_UnknownError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sosumi.EINTERNAL, sosumi.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sosumi.ErrorMessage(nil))
}

func TestErrorMessage_UnknownError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal error.", sosumi.ErrorMessage(errors.New("boom")))
}
