package serline

// Role identifies the author of a conversation turn. The values are
// wire-exact: they appear verbatim in the request payload.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)
