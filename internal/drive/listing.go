package drive

import (
	"context"

	"github.com/objvault/drivefs/internal/errs"
	"github.com/objvault/drivefs/internal/objstore"
)

// ErrListingTruncated wraps the upstream error returned when a listing
// exceeds the configured page budget. Callers can detect it with
// errors.Is to distinguish an over-large prefix from a store failure.
var ErrListingTruncated = errs.New(errs.ErrKindUpstream, "listing truncated: prefix exceeds the page budget")

// collectPages follows continuation tokens until the store reports no
// more pages, aggregating all objects and common prefixes. maxPages
// bounds memory on pathological prefixes: exceeding it returns
// ErrListingTruncated instead of looping on.
func collectPages(ctx context.Context, client objstore.Client, prefix, delimiter string, maxPages int) ([]objstore.ObjectMeta, []string, error) {
	var (
		objects  []objstore.ObjectMeta
		prefixes []string
		token    string
	)

	for page := 0; ; page++ {
		if page >= maxPages {
			return nil, nil, errs.Wrap(errs.ErrKindUpstream, "aborted listing of "+prefix, ErrListingTruncated)
		}

		p, err := client.List(ctx, prefix, delimiter, token)
		if err != nil {
			return nil, nil, err
		}

		objects = append(objects, p.Objects...)
		prefixes = append(prefixes, p.CommonPrefixes...)

		if !p.Truncated {
			return objects, prefixes, nil
		}
		token = p.NextToken
	}
}
