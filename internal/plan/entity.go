// AngelaMos | 2026
// entity.go

package plan

import (
	"math"
)

// Plan is a purchasable subscription tier. Price is in major currency units.
type Plan struct {
	ID             int64   `db:"id"              json:"id"`
	Name           string  `db:"name"            json:"name"`
	Price          float64 `db:"price"           json:"price"`
	JobLimit       int     `db:"job_limit"       json:"job_limit"`
	CandidateLimit int     `db:"candidate_limit" json:"candidate_limit"`
	VisibilityDays int     `db:"visibility_days" json:"visibility_days"`
	Description    string  `db:"description"     json:"description"`
}

// MinorUnits returns the price in the currency's smallest unit.
func (p Plan) MinorUnits() int64 {
	return int64(math.Round(p.Price * 100))
}

// Defaults are inserted the first time the catalog is read from an empty
// table.
var Defaults = []Plan{
	{
		Name:           "basic",
		Price:          9.99,
		JobLimit:       5,
		CandidateLimit: 50,
		VisibilityDays: 30,
		Description:    "Pack Basic: 5 offres, 30 jours de visibilité",
	},
	{
		Name:           "standard",
		Price:          29.99,
		JobLimit:       15,
		CandidateLimit: 200,
		VisibilityDays: 60,
		Description:    "Pack Standard: 15 offres, 60 jours de visibilité",
	},
	{
		Name:           "premium",
		Price:          59.99,
		JobLimit:       50,
		CandidateLimit: 1000,
		VisibilityDays: 90,
		Description:    "Pack Premium: 50 offres, 90 jours de visibilité",
	},
}
