package authz

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/casbin/casbin/v3"

	"github.com/cookideas/server/internal/services"
)

//go:embed model_idea.conf policy_idea.csv
var embedFS embed.FS

// Actions checked against ideas.
const (
	ActionWrite          = "write"
	ActionEdit           = "edit"
	ActionManageFinances = "manage_finances"
)

// Enforcer answers permission questions about ideas. Roles are not stored in
// casbin; a custom role manager resolves the user's role from the membership
// table on every check, so permissions always reflect the current equity
// distribution.
type Enforcer struct {
	idea        *casbin.Enforcer
	memberships *services.MembershipService
}

// NewEnforcer creates the idea enforcer from the embedded model and policy.
func NewEnforcer(memberships *services.MembershipService) (*Enforcer, error) {
	dir, err := os.MkdirTemp("", "cookideas-casbin-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := writeEmbedToDir(dir, "model_idea.conf", "policy_idea.csv"); err != nil {
		return nil, err
	}

	ideaEnforcer, err := casbin.NewEnforcer(
		filepath.Join(dir, "model_idea.conf"),
		filepath.Join(dir, "policy_idea.csv"),
	)
	if err != nil {
		return nil, err
	}
	ideaEnforcer.SetRoleManager(newIdeaRoleManager(memberships))
	// The g matcher keeps the role manager captured at construction until
	// links are rebuilt.
	if err := ideaEnforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}

	return &Enforcer{idea: ideaEnforcer, memberships: memberships}, nil
}

func writeEmbedToDir(dir string, names ...string) error {
	for _, name := range names {
		data, err := embedFS.ReadFile(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			return err
		}
	}
	return nil
}

// Enforce checks whether userID may perform action on the idea. The role
// manager treats the idea's creator as an implicit owner.
func (e *Enforcer) Enforce(userID, ideaID, action string) (bool, error) {
	return e.idea.Enforce(userID, ideaID, "idea", action)
}

// CanWrite reports write permission (owner, equity owner, contractor, or creator).
func (e *Enforcer) CanWrite(userID, ideaID string) (bool, error) {
	return e.Enforce(userID, ideaID, ActionWrite)
}

// CanEdit reports edit permission (owner, equity owner, or creator).
func (e *Enforcer) CanEdit(userID, ideaID string) (bool, error) {
	return e.Enforce(userID, ideaID, ActionEdit)
}

// CanManageFinances reports finance permission (owner, equity owner, or creator).
func (e *Enforcer) CanManageFinances(userID, ideaID string) (bool, error) {
	return e.Enforce(userID, ideaID, ActionManageFinances)
}
