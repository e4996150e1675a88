// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package parse converts the raw tokens found in exchange feeds and
// regulatory filings into typed values. Upstream numbers arrive with
// thousands separators, full-width spaces, parenthesized negatives,
// trailing percent signs, and a variety of placeholder tokens for
// "no data". Malformed input always degrades to absent, never to an
// error, so a bad cell cannot abort ingestion of the record around it.
package parse

import (
	"strconv"
	"strings"
)

// placeholder tokens the exchanges use for missing observations
var noDataTokens = map[string]struct{}{
	"":    {},
	"-":   {},
	"--":  {},
	"N/A": {},
	"X":   {},
}

var separatorReplacer = strings.NewReplacer(",", "", " ", "", "　", "")

// sanitize strips separators and sign decorations from a raw token and
// reports whether anything parseable remains.
func sanitize(tok string) (string, bool) {
	s := strings.TrimSpace(tok)
	if _, ok := noDataTokens[s]; ok {
		return "", false
	}

	s = separatorReplacer.Replace(s)
	if _, ok := noDataTokens[s]; ok {
		return "", false
	}

	// accountants write negatives as (500)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return "", false
	}

	return s, true
}

// Number parses tok as a decimal value. The second return value is
// false when the token is a recognized no-data placeholder or cannot
// be parsed.
func Number(tok string) (float64, bool) {
	s, ok := sanitize(tok)
	if !ok {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// Integer parses tok as an integer, truncating any fractional part.
func Integer(tok string) (int64, bool) {
	v, ok := Number(tok)
	if !ok {
		return 0, false
	}

	return int64(v), true
}

// Percent parses tok as a percentage, stripping a trailing "%" if
// present. The returned value keeps percent units: "12.5%" -> 12.5.
func Percent(tok string) (float64, bool) {
	s := strings.TrimSpace(tok)
	s = strings.TrimSuffix(s, "%")
	return Number(s)
}
