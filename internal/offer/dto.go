// AngelaMos | 2026
// dto.go

package offer

type CreateOfferRequest struct {
	Title        string `json:"title"         validate:"required,max=255"`
	Description  string `json:"description"   validate:"required,max=10000"`
	Location     string `json:"location"      validate:"max=255"`
	ContractType string `json:"contract_type" validate:"max=50"`
	Salary       string `json:"salary"        validate:"max=100"`
}

type ListParams struct {
	Page     int
	PageSize int
	Search   string
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
