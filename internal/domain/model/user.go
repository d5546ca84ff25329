package model

import (
	"time"

	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
)

// DeletedUserID is the fixed sentinel identity that adopts content left
// behind by removed accounts, preserving referential integrity of
// published articles and comments.
const DeletedUserID = "deleted-user"

// DeletedUserEmail is the placeholder address stored on the sentinel row.
const DeletedUserEmail = "deleted@pamphlets.invalid"

// User is the locally provisioned account backing a subject.
// Users are created on first login from the identity the provider returns.
type User struct {
	ID        string          `db:"id" json:"id"`
	Email     string          `db:"email" json:"email"`
	Role      domainauth.Role `db:"role" json:"role"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// IsSentinel reports whether the user is the deleted-user placeholder.
func (u User) IsSentinel() bool { return u.ID == DeletedUserID }
