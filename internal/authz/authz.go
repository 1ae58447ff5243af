package authz

import (
	"context"
	"errors"
)

// AdminGroupName is the effective group that unlocks directory maintenance.
const AdminGroupName = "Admin"

// PageAccess is one accessible page in a listing. Multiple grants can yield
// the same page through different sections or groups; listings are
// de-duplicated by page name before they reach the caller.
type PageAccess struct {
	PageRef  string `json:"page_ref"`
	PageName string `json:"page_name"`
}

// RepositoryAPI evaluates grant queries against the store. Implementations
// must use bound parameters only.
type RepositoryAPI interface {
	HasSectionAccess(ctx context.Context, userCode, sectionName string) (bool, error)
	AccessiblePages(ctx context.Context, userCode, refPrefix string) ([]PageAccess, error)
	AccessibleSections(ctx context.Context, userCode string) ([]string, error)
	EffectiveGroup(ctx context.Context, userCode string) (string, error)
}

// ErrAuthorizationUnavailable wraps every store failure during evaluation.
// Callers must treat it as "deny".
var ErrAuthorizationUnavailable = errors.New("authorization store unavailable")
