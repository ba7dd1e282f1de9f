// AngelaMos | 2026
// entity.go

package pending

import (
	"time"
)

// Registration is a recruiter signup waiting for its first payment. The
// password is always stored hashed and never serialized.
type Registration struct {
	ID             int64     `db:"id"              json:"id"`
	LastName       string    `db:"last_name"       json:"last_name"`
	FirstName      string    `db:"first_name"      json:"first_name"`
	Email          string    `db:"email"           json:"email"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	Role           string    `db:"role"            json:"role"`
	CompanyName    string    `db:"company_name"    json:"company_name"`
	Industry       string    `db:"industry"        json:"industry"`
	Description    string    `db:"description"     json:"description"`
	CompanyEmail   string    `db:"company_email"   json:"company_email"`
	CompanyAddress string    `db:"company_address" json:"company_address"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
}

const DefaultRole = "recruiter"
