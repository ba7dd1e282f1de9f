// AngelaMos | 2026
// dto.go

package pending

type RegisterRequest struct {
	LastName       string `json:"last_name"       validate:"required,max=100"`
	FirstName      string `json:"first_name"      validate:"required,max=100"`
	Email          string `json:"email"           validate:"required,email,max=255"`
	Password       string `json:"password"        validate:"required,min=8,max=128"`
	Role           string `json:"role"            validate:"omitempty,oneof=recruiter"`
	CompanyName    string `json:"company_name"    validate:"max=255"`
	Industry       string `json:"industry"        validate:"max=255"`
	Description    string `json:"description"     validate:"max=5000"`
	CompanyEmail   string `json:"company_email"   validate:"omitempty,email,max=255"`
	CompanyAddress string `json:"company_address" validate:"max=500"`
}

type RegisterResponse struct {
	PendingID int64 `json:"pending_id"`
}
