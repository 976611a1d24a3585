package auth

import "digital-ledger/models"

// Role levels; higher means more privileged. Unknown roles fall back to 0 so
// they are denied everything that needs a level.
const (
	levelSubscriber  = 10
	levelContributor = 30
	levelEditor      = 60
	levelAdmin       = 100
)

var roleLevels = map[string]int{
	models.RoleSubscriber:  levelSubscriber,
	models.RoleContributor: levelContributor,
	models.RoleEditor:      levelEditor,
	models.RoleAdmin:       levelAdmin,
}

// Action is anything a mutating endpoint must be allowed to do.
type Action string

const (
	ActionManageContent     Action = "content.manage"    // article/podcast/resource/toolbox create, edit, delete, archive
	ActionCreateComment     Action = "comment.create"    // comments, discussions, replies
	ActionManageInvitations Action = "invitations.manage"
	ActionAdminUsers        Action = "users.admin" // create/delete users, role and status changes
	ActionSeedDatabase      Action = "database.seed"
	ActionListSubscribers   Action = "subscribers.list"
)

// Minimum role level required per action.
var actionLevels = map[Action]int{
	ActionManageContent:     levelEditor,
	ActionCreateComment:     levelContributor,
	ActionManageInvitations: levelEditor,
	ActionAdminUsers:        levelAdmin,
	ActionSeedDatabase:      levelAdmin,
	ActionListSubscribers:   levelAdmin,
}

// Allows is the single policy decision point: it maps (role, action) to
// allow/deny. Handlers never compare roles inline.
func Allows(role string, action Action) bool {
	required, ok := actionLevels[action]
	if !ok {
		return false
	}
	return roleLevels[role] >= required
}
