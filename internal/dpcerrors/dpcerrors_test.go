package dpcerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New_NoCause_ErrorIsJustMessage(t *testing.T) {
	assert := assert.New(t)

	err := New("something went wrong")
	assert.Equal("something went wrong", err.Error())
	assert.Nil(err.Unwrap())
}

func Test_New_WithCause_ErrorsIsMatchesCause(t *testing.T) {
	assert := assert.New(t)

	underlying := errors.New("disk full")
	err := New("could not read source", underlying)

	assert.Equal("could not read source: disk full", err.Error())
	assert.True(errors.Is(err, underlying))
}

func Test_WrapResolverFailure_MatchesBothCauses(t *testing.T) {
	assert := assert.New(t)

	underlying := errors.New("connection refused")
	err := WrapResolverFailure("failed to resolve root source", underlying)

	assert.True(errors.Is(err, underlying))
	assert.True(errors.Is(err, ErrResolverFailure))
	assert.Contains(err.Error(), "connection refused")
}

func Test_Is_DistinctSentinelsNotConfused(t *testing.T) {
	assert := assert.New(t)

	err := New("cancelled", ErrCancelled)
	assert.True(errors.Is(err, ErrCancelled))
	assert.False(errors.Is(err, ErrNotFound))
}
