package domain

// UserRole gates access to management endpoints.
type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "superadmin"
)

// User is an account as the upstream API serializes it.
type User struct {
	ID        string   `json:"_id"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Role      UserRole `json:"role,omitempty"`
	Active    bool     `json:"active,omitempty"`
	Verified  bool     `json:"verified,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// Session is the authenticated state a login call yields.
type Session struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt,omitempty"`
	User      *User  `json:"user,omitempty"`
}
