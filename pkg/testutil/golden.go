// Package testutil contains helpers for golden-file based tests.
package testutil

import (
	"encoding/json"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	yaml "gopkg.in/yaml.v3"
)

// GoldenUpdateEnv is the name of the environment variable that makes the
// assertions update the golden files instead of comparing against them.
const GoldenUpdateEnv = `TESTUTIL_UPDATE_GOLDEN`

// TB is a subset of the testing.TB interface, therefore every *testing.T
// struct can be used.
type TB interface {
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Log(args ...interface{})
}

// AssertGolden tests, if the content of filename matches given data. On
// mismatch the test fails with a diff. Setting the TESTUTIL_UPDATE_GOLDEN
// environment variable updates the file instead, which can then be verified
// via a VCS diff.
func AssertGolden(t TB, filename string, data []byte) {
	if os.Getenv(GoldenUpdateEnv) != "" {
		err := os.WriteFile(filename, data, os.FileMode(0o644))
		if err != nil {
			t.Error(err)
			return
		}
	}

	golden, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		golden = []byte{}
	} else if err != nil {
		t.Error(err)
		return
	}

	if string(golden) == string(data) {
		return
	}

	udiff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(golden)),
		B:        difflib.SplitLines(string(data)),
		FromFile: filename,
		ToFile:   "generated",
		Context:  3,
	})
	if err != nil {
		t.Error(err)
		return
	}

	t.Errorf("Generated data does not match golden file '%s'. Update with %s=1.\n%s",
		filename, GoldenUpdateEnv, udiff)
}

// AssertGoldenYAML works like AssertGolden, but converts the data to YAML
// first.
func AssertGoldenYAML(t TB, filename string, data interface{}) {
	generated, err := yaml.Marshal(data)
	if err != nil {
		t.Error(err)
		return
	}

	AssertGolden(t, filename, generated)
}

// AssertGoldenJSON works like AssertGolden, but converts the data to JSON
// first.
func AssertGoldenJSON(t TB, filename string, data interface{}) {
	generated, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		t.Error(err)
		return
	}

	generated = append(generated, '\n')

	AssertGolden(t, filename, generated)
}
