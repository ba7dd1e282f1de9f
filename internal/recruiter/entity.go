// AngelaMos | 2026
// entity.go

package recruiter

import (
	"time"
)

// Recruiter is the company profile attached to a user account.
type Recruiter struct {
	ID             int64     `db:"id"              json:"id"`
	UserID         int64     `db:"user_id"         json:"user_id"`
	CompanyName    string    `db:"company_name"    json:"company_name"`
	Industry       string    `db:"industry"        json:"industry"`
	Description    string    `db:"description"     json:"description"`
	CompanyEmail   string    `db:"company_email"   json:"company_email"`
	CompanyAddress string    `db:"company_address" json:"company_address"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
}

type Profile struct {
	CompanyName    string `json:"company_name"`
	Industry       string `json:"industry"`
	Description    string `json:"description"`
	CompanyEmail   string `json:"company_email"`
	CompanyAddress string `json:"company_address"`
}
