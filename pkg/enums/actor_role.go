package enums

// ActorRole identifies who a request acts as.
type ActorRole string

const (
	ActorRoleCompany ActorRole = "company"
	ActorRoleAdmin   ActorRole = "admin"
)

var validActorRoles = []ActorRole{
	ActorRoleCompany,
	ActorRoleAdmin,
}

func (r ActorRole) String() string {
	return string(r)
}

func (r ActorRole) IsValid() bool {
	for _, valid := range validActorRoles {
		if r == valid {
			return true
		}
	}
	return false
}

// ParseActorRole converts raw input into a validated ActorRole.
func ParseActorRole(raw string) (ActorRole, bool) {
	role := ActorRole(raw)
	if role.IsValid() {
		return role, true
	}
	return "", false
}
