package authz

import (
	"context"

	"github.com/casbin/casbin/v3/log"
	"github.com/casbin/casbin/v3/rbac"

	"github.com/cookideas/server/internal/services"
)

// ideaRoleManager resolves a user's role within an idea from the membership
// table on every check. The idea id arrives as the request domain.
type ideaRoleManager struct {
	memberships *services.MembershipService
}

var _ rbac.RoleManager = (*ideaRoleManager)(nil)

func newIdeaRoleManager(memberships *services.MembershipService) *ideaRoleManager {
	return &ideaRoleManager{memberships: memberships}
}

func (rm *ideaRoleManager) Clear() error { return nil }

func (rm *ideaRoleManager) AddLink(name1, name2 string, domain ...string) error { return nil }

func (rm *ideaRoleManager) BuildRelationship(name1, name2 string, domain ...string) error { return nil }

func (rm *ideaRoleManager) DeleteLink(name1, name2 string, domain ...string) error { return nil }

func (rm *ideaRoleManager) HasLink(name1, name2 string, domain ...string) (bool, error) {
	roles, err := rm.GetRoles(name1, domain...)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r == name2 {
			return true, nil
		}
	}
	return false, nil
}

func (rm *ideaRoleManager) GetRoles(name string, domain ...string) ([]string, error) {
	if len(domain) < 1 {
		return nil, nil
	}
	ideaID := domain[0]
	role, found, err := rm.memberships.RoleInIdea(context.Background(), ideaID, name)
	if err != nil || !found {
		return nil, nil
	}
	return []string{role}, nil
}

func (rm *ideaRoleManager) GetUsers(name string, domain ...string) ([]string, error) {
	return nil, nil
}

func (rm *ideaRoleManager) GetImplicitRoles(name string, domain ...string) ([]string, error) {
	return rm.GetRoles(name, domain...)
}

func (rm *ideaRoleManager) GetImplicitUsers(name string, domain ...string) ([]string, error) {
	return nil, nil
}

func (rm *ideaRoleManager) GetDomains(name string) ([]string, error) {
	return nil, nil
}

func (rm *ideaRoleManager) GetAllDomains() ([]string, error) {
	return nil, nil
}

func (rm *ideaRoleManager) PrintRoles() error {
	return nil
}

func (rm *ideaRoleManager) SetLogger(logger log.Logger) {}

func (rm *ideaRoleManager) Match(str, pattern string) bool {
	return str == pattern
}

func (rm *ideaRoleManager) AddMatchingFunc(name string, fn rbac.MatchingFunc) {}

func (rm *ideaRoleManager) AddDomainMatchingFunc(name string, fn rbac.MatchingFunc) {}

func (rm *ideaRoleManager) DeleteDomain(domain string) error {
	return nil
}
