// AngelaMos | 2026
// helpers_test.go

package payment

import (
	"strconv"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/recruiter"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func recruiterProfile(company string) recruiter.Profile {
	return recruiter.Profile{CompanyName: company}
}
