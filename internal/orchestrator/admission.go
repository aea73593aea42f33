package orchestrator

import (
	"fmt"

	"github.com/katameow/recsys-go/internal/apierr"
	"github.com/katameow/recsys-go/internal/fingerprint"
)

// Prepare computes the fingerprint identity of req and applies the
// guest-policy and hash-mismatch tie-breaks from spec.md §4.7, ahead
// of any cache lookup or engine work. It is safe to call synchronously
// from the request handler before a background task is scheduled.
func (o *Orchestrator) Prepare(req SubmitRequest) (Admission, error) {
	guest := req.Auth.Guest()
	if guest && !o.cfg.EnableGuestHashedQueries {
		return Admission{}, fmt.Errorf("%w: guest submissions are disabled", apierr.ErrForbidden)
	}

	extra := map[string]any{"guest": guest}
	if !guest {
		extra["subject"] = req.Auth.Subject
	}

	fp := fingerprint.Fingerprint{
		Query:             req.Query,
		ProductsK:         req.ProductsK,
		ReviewsPerProduct: req.ReviewsPerProduct,
		Extra:             extra,
	}
	hash, _, err := fingerprint.Hash(fp)
	if err != nil {
		return Admission{}, fmt.Errorf("%w: %v", apierr.ErrValidation, err)
	}

	if req.ClientQueryHash != nil && *req.ClientQueryHash != hash {
		return Admission{}, apierr.ErrHashMismatch
	}

	if o.admitter != nil {
		allowed, aerr := o.admitter.CanSubmitSearch(req.Auth)
		if aerr != nil {
			return Admission{}, aerr
		}
		if !allowed {
			return Admission{}, apierr.ErrForbidden
		}
	}

	return Admission{QueryHash: hash, CanonicalQuery: fingerprint.Canonicalize(req.Query), Scope: scopeFor(guest)}, nil
}
