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
package parse

import (
	"strconv"
	"strings"
	"time"
)

// rocEpochOffset converts Republic of China calendar years to the
// Gregorian calendar. Taiwanese exchange feeds encode dates as
// "113/05/17" meaning 2024-05-17. This offset is a firm contract of
// the upstream wire format, not a heuristic.
const rocEpochOffset = 1911

// ROCDate parses a "YYY/MM/DD" date token. Years below 1000 are
// treated as ROC years; four digit years pass through unchanged so
// mixed-vintage feeds still parse.
func ROCDate(tok string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(tok), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}

	if year < 1000 {
		year += rocEpochOffset
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// ROCYear converts a Gregorian year to its ROC equivalent for use in
// outbound request parameters.
func ROCYear(year int) int {
	return year - rocEpochOffset
}
