package conformance

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TestDir is where fixture YAML files live, relative to this package.
const TestDir = "testdata"

// LoadedTest pairs one TestCase with the file it came from, for
// readable subtest names.
type LoadedTest struct {
	File string
	Name string
	Test TestCase
}

// LoadAllTests walks TestDir and loads every fixture file's cases.
func LoadAllTests() ([]LoadedTest, error) {
	abs, err := filepath.Abs(TestDir)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("conformance: test directory not found: %s", abs)
	}

	var loaded []LoadedTest
	err = filepath.Walk(abs, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}
		suite, err := loadSuiteFile(path)
		if err != nil {
			relPath, _ := filepath.Rel(abs, path)
			fmt.Fprintf(os.Stderr, "conformance: skipping %s: %v\n", relPath, err)
			return nil
		}
		relPath, _ := filepath.Rel(abs, path)
		for _, tc := range suite.Tests {
			loaded = append(loaded, LoadedTest{File: relPath, Name: suite.Name + "/" + tc.Name, Test: tc})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

func loadSuiteFile(path string) (*TestSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var suite TestSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, err
	}
	return &suite, nil
}
