// Package policy is the single place where role capabilities are decided.
// Handlers evaluate a capability once before dispatch instead of sprinkling
// role checks per action.
package policy

import "github.com/mdsabbir/vaxchain/internal/domain"

type Capabilities struct {
	CanCreateCampaign bool
	CanBook           bool
	CanReview         bool
	CanManageRecords  bool
}

var byRole = map[domain.Role]Capabilities{
	domain.RoleDoctor: {
		CanCreateCampaign: true,
		CanManageRecords:  true,
	},
	domain.RolePatient: {
		CanBook:   true,
		CanReview: true,
	},
}

// For returns the capability set of a role. Unknown roles get no
// capabilities.
func For(role domain.Role) Capabilities {
	return byRole[role]
}
