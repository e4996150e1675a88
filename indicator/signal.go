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
package indicator

// Valuation signal labels. Downstream screens filter on set membership.
const (
	SignalWatch       = "watch"
	SignalModerate    = "moderate"
	SignalUndervalued = "undervalued"
	SignalLowPriced   = "low-priced"
	SignalOverheated  = "overheated"
)

// Signal classifies a company from its composite score and trailing
// price-to-earnings multiple. A weak composite is a watch regardless
// of valuation; without a computable P/E the company is moderate.
func Signal(cbsScore int, pe *float64) string {
	if cbsScore < 40 {
		return SignalWatch
	}
	if pe == nil {
		return SignalModerate
	}
	switch {
	case *pe < 10:
		return SignalUndervalued
	case *pe < 15:
		return SignalLowPriced
	case *pe < 25:
		return SignalModerate
	default:
		return SignalOverheated
	}
}
