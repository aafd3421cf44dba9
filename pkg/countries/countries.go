// Package countries holds the static ISO-3166-1 alpha-2 lookup table used to
// validate the user country field. The table is embedded at build time and
// decoded once at process start; validation is a pure membership check.
package countries

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed iso_3166_1_alpha_2.json
var rawMapping []byte

var nameByCode = mustDecode(rawMapping)

func mustDecode(raw []byte) map[string]string {
	mapping := map[string]string{}
	if err := json.Unmarshal(raw, &mapping); err != nil {
		panic(fmt.Sprintf("countries: decoding embedded mapping: %v", err))
	}
	return mapping
}

// IsValid reports whether code is a known ISO-3166-1 alpha-2 country code.
// Matching is case sensitive; codes are stored upper case.
func IsValid(code string) bool {
	_, ok := nameByCode[code]
	return ok
}

// Name returns the English short name for the given code.
func Name(code string) (string, bool) {
	name, ok := nameByCode[code]
	return name, ok
}

// Codes returns all known codes in lexical order.
func Codes() []string {
	codes := make([]string, 0, len(nameByCode))
	for code := range nameByCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
