package entity

// Role values as the backend enumerates them.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"` // USER, ADMIN
	Enabled  bool   `json:"enabled"`
}

// UserStats is the aggregate from /users/stats. Fetching it is
// best-effort: a failure is logged and never blocks the primary view.
type UserStats struct {
	TotalCount  int `json:"totalCount"`
	AdminCount  int `json:"adminCount"`
	ActiveCount int `json:"activeCount"`
}

// RegisterInput is the /auth/register payload. ConfirmPassword is a
// client-side check only and is not sent to the server.
type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"eqfield=Password"`
}

// AuthResponse is what /auth/login returns after envelope unwrap.
type AuthResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}
