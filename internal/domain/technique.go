package domain

import "github.com/google/uuid"

// TechniqueParam описывает один параметр, который записывается в сессию техники.
type TechniqueParam struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
	Unit string `json:"unit,omitempty" yaml:"unit"`
}

type Technique struct {
	ID          uuid.UUID        `db:"id"`
	Name        string           `db:"name"`
	Description *string          `db:"description"`
	Parameters  []TechniqueParam `db:"parameters"`
}
