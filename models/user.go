package models

// Role constants. RoleUser is implied for every account and is ensured by
// NormalizeRoles whenever roles cross the system boundary.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

type User struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Username string   `gorm:"size:255;uniqueIndex" json:"username"`
	Email    string   `gorm:"size:255;uniqueIndex" json:"email"`
	Password string   `gorm:"size:255" json:"-"`
	Roles    []string `gorm:"serializer:json" json:"roles"`
}

// NormalizeRoles produces the canonical role slice: every known role at
// most once, ROLE_USER always present. Login responses and token claims go
// through here so the rest of the system never sees a missing default role.
func NormalizeRoles(roles []string) []string {
	normalized := []string{RoleUser}
	seen := map[string]bool{RoleUser: true}
	for _, role := range roles {
		if role == "" || seen[role] {
			continue
		}
		seen[role] = true
		normalized = append(normalized, role)
	}
	return normalized
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
