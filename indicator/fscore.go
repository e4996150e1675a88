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

// FScoreMax caps the quality score. Nine conditions are checked but
// the score is nominally an eight-point scale, so a company satisfying
// all nine still scores 8.
const FScoreMax = 8

// FScore is a Piotroski-style quality score comparing the two newest
// statement periods. It needs at least two periods; with fewer it is
// 0. A condition whose operands are absent earns no point.
func FScore(current *data.FinancialReport, prior *data.FinancialReport) int {
	if current == nil || prior == nil {
		return 0
	}

	score := 0

	// profitability
	if current.NetIncome != nil && *current.NetIncome > 0 {
		score++
	}
	if current.OperatingCashFlow != nil && *current.OperatingCashFlow > 0 {
		score++
	}
	if improved(ratio(current.NetIncome, current.TotalAssets, 100),
		ratio(prior.NetIncome, prior.TotalAssets, 100)) {
		score++
	}
	if current.OperatingCashFlow != nil && current.NetIncome != nil &&
		*current.OperatingCashFlow > *current.NetIncome {
		score++
	}

	// leverage and liquidity
	if declined(DebtRatio(current), DebtRatio(prior)) {
		score++
	}
	if improved(CurrentRatio(current), CurrentRatio(prior)) {
		score++
	}
	if shareCountUnchanged(current, prior) {
		score++
	}

	// operating efficiency
	if improved(GrossMargin(current), GrossMargin(prior)) {
		score++
	}
	if improved(AssetTurnover(current), AssetTurnover(prior)) {
		score++
	}

	if score > FScoreMax {
		score = FScoreMax
	}
	return score
}

func improved(current *float64, prior *float64) bool {
	return current != nil && prior != nil && *current > *prior
}

func declined(current *float64, prior *float64) bool {
	return current != nil && prior != nil && *current < *prior
}

// shareCountUnchanged awards the no-dilution point. Two filings that
// both omit share capital count as unchanged.
func shareCountUnchanged(current *data.FinancialReport, prior *data.FinancialReport) bool {
	if current.ShareCapital == nil && prior.ShareCapital == nil {
		return true
	}
	if current.ShareCapital == nil || prior.ShareCapital == nil {
		return false
	}
	return *current.ShareCapital == *prior.ShareCapital
}
