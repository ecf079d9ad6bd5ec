package booking

import "github.com/babyconnect/service-booking/internal/shared/domain"

// CareSpecification is a value object describing the children to be cared for.
type CareSpecification struct {
	ChildrenCount int    `json:"children_count"`
	ChildrenAges  string `json:"children_ages"`
	SpecialNeeds  string `json:"special_needs,omitempty"`
}

// Validate checks the specification's required fields.
func (s CareSpecification) Validate() error {
	if s.ChildrenCount <= 0 {
		return domain.NewValidationError("children count must be positive")
	}
	return nil
}
