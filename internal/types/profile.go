//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// ProfileRequest is the student profile submitted for a recommendation.
// Every field is optional; an all-empty profile is still processed.
type ProfileRequest struct {
	Name        string   `json:"name" validate:"max=200"`
	Education   string   `json:"education" validate:"max=500"`
	Interests   []string `json:"interests" validate:"max=50,dive,max=200"`
	Skills      []string `json:"skills" validate:"max=50,dive,max=200"`
	Constraints string   `json:"constraints" validate:"max=1000"`
}

// Validate validates the ProfileRequest using the validator.
func (r *ProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
