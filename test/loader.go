// Package test holds fixture-driven cross-checks for the runtime and
// codegen packages: wire-format scenarios authored once as JSON5 data and
// replayed against the hand-written encode/decode paths, the same
// separation of "what the bytes should look like" from "how we produce
// them" the JSON5 test fixtures gave the original bit-level codec.
package test

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aeolun/json5"
)

// Fixture is one scenario: a kind naming which runtime code path to
// exercise, the decoded value, and the exact bytes it must produce.
type Fixture struct {
	Description string      `json:"description"`
	Kind        string      `json:"kind"`
	Value       interface{} `json:"value"`
	Bytes       []byte      `json:"bytes"`
	ShouldError bool        `json:"should_error,omitempty"`
}

// LoadFixtures loads one JSON5 file containing a top-level "fixtures" array.
func LoadFixtures(path string) ([]Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %s: %w", path, err)
	}

	var doc struct {
		Fixtures []Fixture `json:"fixtures"`
	}
	if err := json5.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file %s: %w", path, err)
	}

	for i := range doc.Fixtures {
		doc.Fixtures[i].Value = processBigIntValue(doc.Fixtures[i].Value)
	}

	return doc.Fixtures, nil
}

// LoadAllFixtures loads every *.fixtures.json5 file under rootDir.
func LoadAllFixtures(rootDir string) ([]Fixture, error) {
	var all []Fixture
	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".fixtures.json5") {
			return nil
		}
		fixtures, err := LoadFixtures(path)
		if err != nil {
			return err
		}
		all = append(all, fixtures...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// processBigIntValue converts BigInt-convention strings (e.g. "12345n",
// used for values that don't fit a JSON5 number losslessly — u64 and
// u128 test values) into Go integers, recursing into maps and slices.
func processBigIntValue(val interface{}) interface{} {
	switch v := val.(type) {
	case string:
		if strings.HasSuffix(v, "n") {
			numStr := strings.TrimSuffix(v, "n")
			if num, err := strconv.ParseInt(numStr, 10, 64); err == nil {
				return num
			}
			if num, err := strconv.ParseUint(numStr, 10, 64); err == nil {
				return num
			}
		}
		return v
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for k, e := range v {
			result[k] = processBigIntValue(e)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, e := range v {
			result[i] = processBigIntValue(e)
		}
		return result
	default:
		return v
	}
}
