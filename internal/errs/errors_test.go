package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{name: "not found", err: New(ErrKindNotFound, "gone"), pred: IsNotFound},
		{name: "validation", err: New(ErrKindValidation, "bad name"), pred: IsValidation},
		{name: "quota", err: New(ErrKindQuotaExceeded, "too big"), pred: IsQuotaExceeded},
		{name: "upstream", err: New(ErrKindUpstream, "store down"), pred: IsUpstream},
		{name: "timeout", err: New(ErrKindTimeout, "deadline"), pred: IsTimeout},
		{name: "permission", err: New(ErrKindPermissionDenied, "denied"), pred: IsPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.pred(tt.err))
			assert.False(t, tt.pred(errors.New("plain")))
		})
	}
}

func TestPredicatesThroughWrapping(t *testing.T) {
	inner := New(ErrKindNotFound, "missing object")
	outer := fmt.Errorf("download url: %w", inner)

	assert.True(t, IsNotFound(outer))
	assert.False(t, IsUpstream(outer))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(ErrKindUpstream, "list failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "upstream")
	assert.Contains(t, err.Error(), "list failed")
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(New(ErrKindUpstream, "5xx")))
	assert.True(t, Retryable(New(ErrKindTimeout, "deadline")))
	assert.False(t, Retryable(New(ErrKindValidation, "bad input")))
	assert.False(t, Retryable(New(ErrKindNotFound, "gone")))
	assert.False(t, Retryable(errors.New("untyped")))
}

func TestPartialError(t *testing.T) {
	pe := &PartialError{
		Op:        "rename",
		Succeeded: []string{"u1/a", "u1/b"},
		Failed:    []KeyOutcome{{Key: "u1/c", Err: New(ErrKindUpstream, "copy failed")}},
	}

	assert.True(t, IsPartialFailure(pe))

	wrapped := fmt.Errorf("facade: %w", pe)
	got, ok := AsPartial(wrapped)
	require.True(t, ok)
	assert.Len(t, got.Succeeded, 2)
	assert.Len(t, got.Failed, 1)
	assert.Contains(t, pe.Error(), "partial_failure")
}
