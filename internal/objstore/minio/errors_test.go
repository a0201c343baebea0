package minio

import (
	"context"
	"errors"
	"net/http"
	"testing"

	minioErr "github.com/minio/minio-go/v7"
	"github.com/objvault/drivefs/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: errs.ErrKindTimeout,
		},
		{
			name: "canceled",
			err:  context.Canceled,
			want: errs.ErrKindTimeout,
		},
		{
			name: "http 404",
			err:  minioErr.ErrorResponse{StatusCode: http.StatusNotFound, Code: "NoSuchKey"},
			want: errs.ErrKindNotFound,
		},
		{
			name: "http 403",
			err:  minioErr.ErrorResponse{StatusCode: http.StatusForbidden, Code: "AccessDenied"},
			want: errs.ErrKindPermissionDenied,
		},
		{
			name: "http 401",
			err:  minioErr.ErrorResponse{StatusCode: http.StatusUnauthorized},
			want: errs.ErrKindPermissionDenied,
		},
		{
			name: "http 400",
			err:  minioErr.ErrorResponse{StatusCode: http.StatusBadRequest, Code: "InvalidObjectName"},
			want: errs.ErrKindValidation,
		},
		{
			name: "no such bucket by code",
			err:  minioErr.ErrorResponse{Code: "NoSuchBucket"},
			want: errs.ErrKindNotFound,
		},
		{
			name: "signature mismatch by code",
			err:  minioErr.ErrorResponse{Code: "SignatureDoesNotMatch"},
			want: errs.ErrKindPermissionDenied,
		},
		{
			name: "key too long by code",
			err:  minioErr.ErrorResponse{Code: "KeyTooLongError"},
			want: errs.ErrKindValidation,
		},
		{
			name: "slow down by code",
			err:  minioErr.ErrorResponse{Code: "SlowDown"},
			want: errs.ErrKindTimeout,
		},
		{
			name: "http 503",
			err:  minioErr.ErrorResponse{StatusCode: http.StatusServiceUnavailable, Code: "InternalError"},
			want: errs.ErrKindUpstream,
		},
		{
			name: "plain transport error",
			err:  errors.New("connection refused"),
			want: errs.ErrKindUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(tt.err, "op failed")
			require.NotNil(t, mapped)
			assert.Equal(t, tt.want, mapped.Kind)
			assert.ErrorIs(t, mapped, tt.err)
		})
	}
}

func TestMapErrorNil(t *testing.T) {
	assert.Nil(t, mapError(nil, "op failed"))
}
