package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a query conformance test.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Files lists textual IR files to load. Relative paths are resolved
	// against the scenario file's directory.
	Files []string `yaml:"files,omitempty"`

	// Modules holds IR written inline in the scenario. Inline modules are
	// loaded after Files.
	Modules []InlineModule `yaml:"modules,omitempty"`

	// Steps are executed in order against one engine, so run sequence
	// numbers continue across steps.
	Steps []QueryStep `yaml:"steps"`

	// Assertions are checked after every step has run.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// InlineModule is textual IR embedded in a scenario.
type InlineModule struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

// QueryStep is one query and its optional expectation.
type QueryStep struct {
	Query  string        `yaml:"query"`
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies what a step must produce. Unset fields are not
// checked. Error is matched as a substring of the error text, so an error
// code such as E201 is enough.
type ExpectClause struct {
	Columns []string   `yaml:"columns,omitempty"`
	Rows    [][]string `yaml:"rows,omitempty"`
	Error   string     `yaml:"error,omitempty"`
}

// Assertion validates a step after the scenario has run.
type Assertion struct {
	// Type is one of row_count, contains_row, column_values, error_code.
	Type string `yaml:"type"`

	// Step is the zero-based index of the step under test.
	Step int `yaml:"step"`

	// Count is the expected number of rows (row_count).
	Count int `yaml:"count,omitempty"`

	// Row is the expected row (contains_row).
	Row []string `yaml:"row,omitempty"`

	// Column and Values describe one output column (column_values).
	Column string   `yaml:"column,omitempty"`
	Values []string `yaml:"values,omitempty"`

	// Code is the expected error code (error_code).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertRowCount     = "row_count"
	AssertContainsRow  = "contains_row"
	AssertColumnValues = "column_values"
	AssertErrorCode    = "error_code"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve file paths relative to the scenario BEFORE validation.
	base := filepath.Dir(path)
	for i, file := range scenario.Files {
		if !filepath.IsAbs(file) {
			scenario.Files[i] = filepath.Join(base, file)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Files) == 0 && len(s.Modules) == 0 {
		return fmt.Errorf("files or modules is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for _, file := range s.Files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			return fmt.Errorf("IR file not found: %s", file)
		}
	}

	for i, m := range s.Modules {
		if m.Name == "" {
			return fmt.Errorf("modules[%d]: name is required", i)
		}
		if m.Source == "" {
			return fmt.Errorf("modules[%d]: source is required", i)
		}
	}

	for i, step := range s.Steps {
		if step.Query == "" {
			return fmt.Errorf("steps[%d]: query is required", i)
		}
		if e := step.Expect; e != nil && e.Error != "" && (e.Columns != nil || e.Rows != nil) {
			return fmt.Errorf("steps[%d].expect: error cannot be combined with columns or rows", i)
		}
	}

	for i, assertion := range s.Assertions {
		assertion := assertion
		if err := validateAssertion(i, &assertion, len(s.Steps)); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, steps int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if a.Step < 0 || a.Step >= steps {
		return fmt.Errorf("assertions[%d]: step %d out of range (scenario has %d steps)", index, a.Step, steps)
	}

	switch a.Type {
	case AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	case AssertContainsRow:
		if len(a.Row) == 0 {
			return fmt.Errorf("assertions[%d]: row is required for contains_row", index)
		}
	case AssertColumnValues:
		if a.Column == "" {
			return fmt.Errorf("assertions[%d]: column is required for column_values", index)
		}
	case AssertErrorCode:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error_code", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
