// AngelaMos | 2026
// entity.go

package offer

import (
	"time"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

type Offer struct {
	ID           int64     `db:"id"            json:"id"`
	RecruiterID  int64     `db:"recruiter_id"  json:"recruiter_id"`
	Title        string    `db:"title"         json:"title"`
	Description  string    `db:"description"   json:"description"`
	Location     string    `db:"location"      json:"location"`
	ContractType string    `db:"contract_type" json:"contract_type"`
	Salary       string    `db:"salary"        json:"salary"`
	Status       string    `db:"status"        json:"status"`
	ExpiresAt    time.Time `db:"expires_at"    json:"expires_at"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}

func (o *Offer) IsExpired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
