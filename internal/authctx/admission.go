package authctx

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// ObjSearch and ObjAdminCache are the two resources search-submission
// admission checks are scoped to; the search core has no other
// Casbin-modeled resource.
const (
	ObjSearch     = "search"
	ObjAdminCache = "admin.cache"
	ActInit       = "init"
	ActSubmit     = "submit"
	ActRead       = "read"
	ActWrite      = "write"
	ActDelete     = "delete"
)

// Admitter wraps a Casbin enforcer loaded from the embedded
// guest/user/admin role model, generalized from the teacher's
// route-permission policy to search-submission permissions.
type Admitter struct {
	enforcer *casbin.Enforcer
}

// NewAdmitter constructs an Admitter from the embedded model and
// policy.
func NewAdmitter() (*Admitter, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("authctx: load model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authctx: new enforcer: %w", err)
	}
	if err := loadEmbeddedPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, fmt.Errorf("authctx: load policy: %w", err)
	}
	return &Admitter{enforcer: enforcer}, nil
}

// loadEmbeddedPolicy parses the CSV policy text directly into the
// enforcer, since the embedded policy is small and fixed at build
// time — no file-adapter indirection is needed the way the teacher's
// authz.Enforcer uses one for operator-editable policy files.
func loadEmbeddedPolicy(enforcer *casbin.Enforcer, csv string) error {
	for _, line := range strings.Split(csv, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		switch fields[0] {
		case "p":
			if _, err := enforcer.AddPolicy(fields[1], fields[2], fields[3]); err != nil {
				return err
			}
		case "g":
			if _, err := enforcer.AddGroupingPolicy(fields[1], fields[2]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Can reports whether ac's role is permitted to perform act on obj.
func (a *Admitter) Can(ac AuthContext, obj, act string) (bool, error) {
	role := ac.Role
	if role == "" {
		role = RoleGuest
	}
	return a.enforcer.Enforce(role, obj, act)
}

// CanSubmitSearch is the admission check spec.md §4.7 names: guest
// submissions are permitted unless the caller separately rejects them
// under ENABLE_GUEST_HASHED_QUERIES; identified and admin subjects are
// always permitted.
func (a *Admitter) CanSubmitSearch(ac AuthContext) (bool, error) {
	return a.Can(ac, ObjSearch, ActSubmit)
}

// CanManageCache reports whether ac may read/write/delete the
// precomputed catalogue via the admin CRUD endpoints.
func (a *Admitter) CanManageCache(ac AuthContext, act string) (bool, error) {
	return a.Can(ac, ObjAdminCache, act)
}
