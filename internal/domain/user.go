package domain

import "time"

type Role string

const (
	RoleUser     Role = "USER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleProvider || r == RoleAdmin
}

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Address         Address   `json:"address"`
	Role            Role      `json:"role"`
	BusinessName    string    `json:"business_name,omitempty"`
	BusinessAddress Address   `json:"business_address"`
	Rating          float64   `json:"rating"`
	IsVerified      bool      `json:"is_verified"`
	PushToken       string    `json:"-"`
	CreatedOn       time.Time `json:"created_on"`
	UpdatedOn       time.Time `json:"updated_on"`
}

// Actor is the authenticated caller, passed explicitly into every operation.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsProvider() bool { return a.Role == RoleProvider }
func (a Actor) IsAdmin() bool    { return a.Role == RoleAdmin }

type UserFilter struct {
	Search   string
	Role     Role
	Verified *bool
	Page     int32
	PageSize int32
}

// ProfileUpdate lists the fields a user may change on their own account.
type ProfileUpdate struct {
	Name            *string
	Phone           *string
	Address         *Address
	BusinessName    *string
	BusinessAddress *Address
}

// AdminUserUpdate lists the fields an administrator may change.
type AdminUserUpdate struct {
	Name       *string
	Phone      *string
	Role       *Role
	IsVerified *bool
}

type RegisterRequest struct {
	Email           string
	Password        string
	Name            string
	Phone           string
	Address         Address
	Role            Role
	BusinessName    string
	BusinessAddress Address
}
