package policy

import (
	"lawdesk/internal/domain/entity"
	"lawdesk/internal/utils/apierror"
)

// UserPolicy encapsulates the rules for team management.
// It returns apierror.ErrorResponse directly for seamless integration
// with handlers.
type UserPolicy struct {
	// BootstrapUsername is the seeded owner account, protected from
	// deletion forever.
	BootstrapUsername string
}

func NewUserPolicy(bootstrapUsername string) *UserPolicy {
	return &UserPolicy{BootstrapUsername: bootstrapUsername}
}

// CanManageTeam checks if 'actor' may create, edit or remove accounts.
func (p *UserPolicy) CanManageTeam(actor *entity.User) apierror.ErrorResponse {
	if !actor.IsOwner() {
		return apierror.NewForbiddenError("only the owner can manage the team")
	}
	return nil
}

// CanDeleteUser checks if 'actor' may delete 'target'. The bootstrap
// owner is immune.
func (p *UserPolicy) CanDeleteUser(actor, target *entity.User) apierror.ErrorResponse {
	if perr := p.CanManageTeam(actor); perr != nil {
		return perr
	}

	if target.Username == p.BootstrapUsername {
		return apierror.BootstrapOwnerError
	}
	return nil
}
