package objstore

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/objvault/drivefs/internal/errs"
)

// RetryPolicy bounds the retry behavior of a Retrying client.
type RetryPolicy struct {
	// MaxTries is the total number of attempts, including the first.
	MaxTries uint

	// InitialInterval seeds the exponential backoff between attempts.
	InitialInterval time.Duration
}

// DefaultRetryPolicy retries twice more after a failed attempt, starting
// at 100ms between tries.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxTries: 3, InitialInterval: 100 * time.Millisecond}
}

// Retrying decorates a Client with bounded exponential backoff. Only
// upstream and timeout error kinds are retried; validation, not-found,
// quota, and permission failures are permanent and returned immediately.
type Retrying struct {
	inner  Client
	policy RetryPolicy
}

// WithRetry wraps client in a Retrying decorator.
func WithRetry(client Client, policy RetryPolicy) *Retrying {
	if policy.MaxTries == 0 {
		policy = DefaultRetryPolicy()
	}
	return &Retrying{inner: client, policy: policy}
}

// retry runs op under the policy. Non-retryable error kinds are marked
// permanent so backoff stops immediately.
func retry[T any](ctx context.Context, policy RetryPolicy, op func() (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.InitialInterval

	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !errs.Retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(policy.MaxTries))
}

func (r *Retrying) List(ctx context.Context, prefix, delimiter, continuationToken string) (*Page, error) {
	return retry(ctx, r.policy, func() (*Page, error) {
		return r.inner.List(ctx, prefix, delimiter, continuationToken)
	})
}

func (r *Retrying) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	return retry(ctx, r.policy, func() (string, error) {
		return r.inner.PresignPut(ctx, key, contentType, expiry)
	})
}

func (r *Retrying) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return retry(ctx, r.policy, func() (string, error) {
		return r.inner.PresignGet(ctx, key, expiry)
	})
}

func (r *Retrying) Head(ctx context.Context, key string) (*ObjectMeta, error) {
	return retry(ctx, r.policy, func() (*ObjectMeta, error) {
		return r.inner.Head(ctx, key)
	})
}

func (r *Retrying) PutMarker(ctx context.Context, key string) error {
	_, err := retry(ctx, r.policy, func() (struct{}, error) {
		return struct{}{}, r.inner.PutMarker(ctx, key)
	})
	return err
}

func (r *Retrying) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := retry(ctx, r.policy, func() (struct{}, error) {
		return struct{}{}, r.inner.Copy(ctx, srcKey, dstKey)
	})
	return err
}

func (r *Retrying) Delete(ctx context.Context, key string) error {
	_, err := retry(ctx, r.policy, func() (struct{}, error) {
		return struct{}{}, r.inner.Delete(ctx, key)
	})
	return err
}
