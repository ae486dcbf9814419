package entity

// Role IDs carried in access token claims. Accounts and roles are managed by
// the identity service; the scheduling API only authorizes against them.
const (
	RoleIDAdmin   = 1
	RoleIDDoctor  = 2
	RoleIDPatient = 3
)
