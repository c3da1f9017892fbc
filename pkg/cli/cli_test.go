package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	base := errors.New("boom")

	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(base))
	assert.Equal(t, ExitStorageFail, ExitCode(&ExitError{Code: ExitStorageFail, Err: base}))
	assert.Equal(t, ExitStorageFail, ExitCode(fmt.Errorf("wrapped: %w", &ExitError{Code: ExitStorageFail, Err: base})))
}

func TestExitErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := &ExitError{Code: ExitFailure, Err: base}

	assert.ErrorIs(t, err, base)
	assert.Equal(t, "boom", err.Error())
}
