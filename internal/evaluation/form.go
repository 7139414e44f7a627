package evaluation

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/types"
)

// Section groups criteria the way monitoring forms are laid out.
type Section struct {
	ID       string            `json:"id" yaml:"id" validate:"required"`
	Name     string            `json:"name" yaml:"name"`
	Criteria []types.Criterion `json:"criteria" yaml:"criteria" validate:"required,min=1,dive"`
}

type Form struct {
	ID       string    `json:"id" yaml:"id" validate:"required"`
	Name     string    `json:"name" yaml:"name"`
	Version  string    `json:"version" yaml:"version"`
	Sections []Section `json:"sections" yaml:"sections" validate:"required,min=1,dive"`
}

// Criterion looks a criterion up by id.
func (f *Form) Criterion(id string) (types.Criterion, bool) {
	for _, s := range f.Sections {
		for _, c := range s.Criteria {
			if c.ID == id {
				return c, true
			}
		}
	}
	return types.Criterion{}, false
}

// MaxScore is the sum of the weights of non-critical criteria.
func (f *Form) MaxScore() float64 {
	total := 0.0
	for _, s := range f.Sections {
		total += sectionMax(s)
	}
	return total
}

var validate = validator.New()

// Check verifies the form shape and that criterion ids are unique.
func (f *Form) Check(source string) error {
	if err := validate.Struct(f); err != nil {
		return &apperr.ConfigError{Source: source, Reason: "invalid form", Raw: err}
	}
	seen := map[string]bool{}
	for _, s := range f.Sections {
		for _, c := range s.Criteria {
			if seen[c.ID] {
				return apperr.Config(source, 0, c.ID, "duplicate criterion id")
			}
			seen[c.ID] = true
		}
	}
	return nil
}

// LoadForm reads an evaluation form from YAML.
func LoadForm(path string) (*Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apperr.ConfigError{Source: path, Reason: "read form", Raw: err}
	}
	return ParseForm(path, data)
}

func ParseForm(source string, data []byte) (*Form, error) {
	var f Form
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &apperr.ConfigError{Source: source, Reason: "parse yaml", Raw: err}
	}
	if err := f.Check(source); err != nil {
		return nil, err
	}
	return &f, nil
}

//go:embed default_form.yaml
var defaultFormYAML []byte

// DefaultForm returns a fresh copy of the built-in call monitoring form.
func DefaultForm() *Form {
	f, err := ParseForm("default_form.yaml", defaultFormYAML)
	if err != nil {
		panic(fmt.Sprintf("evaluation: built-in form: %v", err))
	}
	return f
}

func sectionMax(s Section) float64 {
	total := 0.0
	for _, c := range s.Criteria {
		if !c.Critical {
			total += c.Weight
		}
	}
	return total
}
