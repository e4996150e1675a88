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

import "github.com/chiachunli08/stock-analysis/data"

// CBSScoreMax caps the composite score.
const CBSScoreMax = 100

// CBSScore is the tiered composite used for ranking. The tier
// thresholds and point values are load-bearing: downstream screens
// filter on absolute score values, so they must not drift. An absent
// ratio earns no points for its metric. Debt ratio is inverse-tiered;
// lower leverage scores higher.
func CBSScore(indicator *data.Indicator) int {
	score := 0

	if indicator.ROE != nil {
		switch roe := *indicator.ROE; {
		case roe >= 20:
			score += 20
		case roe >= 15:
			score += 15
		case roe >= 10:
			score += 10
		case roe >= 7:
			score += 5
		}
	}

	if indicator.GrossMargin != nil {
		switch gm := *indicator.GrossMargin; {
		case gm >= 40:
			score += 15
		case gm >= 30:
			score += 10
		case gm >= 20:
			score += 5
		}
	}

	if indicator.CurrentRatio != nil {
		switch cr := *indicator.CurrentRatio; {
		case cr >= 2:
			score += 10
		case cr >= 1.5:
			score += 7
		case cr >= 1:
			score += 3
		}
	}

	if indicator.QuickRatio != nil {
		switch qr := *indicator.QuickRatio; {
		case qr >= 1:
			score += 10
		case qr >= 0.75:
			score += 5
		}
	}

	if indicator.DebtRatio != nil {
		switch dr := *indicator.DebtRatio; {
		case dr <= 30:
			score += 15
		case dr <= 50:
			score += 10
		case dr <= 70:
			score += 5
		}
	}

	if indicator.CashRatio != nil {
		switch cash := *indicator.CashRatio; {
		case cash >= 20:
			score += 10
		case cash >= 10:
			score += 5
		}
	}

	score += indicator.FScore * 2

	if score > CBSScoreMax {
		score = CBSScoreMax
	}
	return score
}
