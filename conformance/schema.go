// Package conformance is a YAML-fixture golden runner: each fixture
// names a snippet of source and the VM result running it is expected
// to produce. Grounded on conformance/schema.go/loader.go/runner.go,
// rewritten against this spec's statements/properties (§8) instead of
// MOO expressions/verbs.
package conformance

// TestSuite is one YAML fixture file: a named group of related cases.
type TestSuite struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Tests       []TestCase `yaml:"tests"`
}

// TestCase is one compiled-and-run check.
type TestCase struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        interface{} `yaml:"skip,omitempty"` // bool or string reason
	Code        string      `yaml:"code,omitempty"` // standalone expression, compiled via vm.CompileExpression
	Statement   string      `yaml:"statement,omitempty"` // full statement block
	Expect      Expectation `yaml:"expect"`
}

// Expectation describes the expected outcome of running a TestCase.
type Expectation struct {
	Value interface{} `yaml:"value,omitempty"` // exact literal match
	Error string      `yaml:"error,omitempty"` // ErrorCode name, e.g. E_TYPE
	Type  string      `yaml:"type,omitempty"`  // TypeCode name, e.g. INT
}

// IsSkipped reports whether this case should be skipped, and why.
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}
	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}
