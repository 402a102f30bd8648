package model

import "time"

// Role is the coarse permission level attached to a user at registration.
// It never changes after the account is created.
type Role string

const (
    RoleUser  Role = "user"  // regular account; sees its own records plus admin-shared ones
    RoleAdmin Role = "admin" // admin account; its records are readable by everyone
)

// ParseRole normalizes a role string.  Anything that is not "admin" maps to
// RoleUser so unknown input never escalates privileges.
func ParseRole(s string) Role {
    if Role(s) == RoleAdmin {
        return RoleAdmin
    }
    return RoleUser
}

// User represents an application user record as stored in the `users`
// table (or collection).  PasswordHash never leaves the server.
//
// Fields:
//  ID           – opaque identifier (UUID string).
//  Name         – display name given at registration.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – user or admin.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           string    `json:"id"`
    Name         string    `json:"name"`
    Email        string    `json:"email"`
    PasswordHash string    `json:"-"`
    Role         Role      `json:"role"`
    CreatedAt    time.Time `json:"createdAt"`
    UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserRef is the reduced owner view embedded in catalog records
// (`{"_id": ..., "role": ...}`).  Role is empty when the owner was not expanded.
type UserRef struct {
    ID   string `json:"_id"`
    Role Role   `json:"role,omitempty"`
}

// RefID implements Identified.
func (u UserRef) RefID() string { return u.ID }
