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

// Package indicator derives fundamental ratios, the quality score, the
// composite score, and the valuation signal from stored statement
// history. Everything here is pure computation; the orchestrator owns
// the reads and writes.
package indicator

import "github.com/chiachunli08/stock-analysis/data"

// ratio returns numerator/denominator scaled by scale, or nil when
// either operand is absent or zero. Zero operands are indistinguishable
// from omitted statement lines upstream, so both degrade to absent; a
// ratio is never silently zero. Negative operands stay valid.
func ratio(num *int64, den *int64, scale float64) *float64 {
	if num == nil || *num == 0 || den == nil || *den == 0 {
		return nil
	}
	v := float64(*num) / float64(*den) * scale
	return &v
}

func ratioDays(num *int64, den *int64) *int64 {
	r := ratio(num, den, 365)
	if r == nil {
		return nil
	}
	days := int64(*r)
	return &days
}

// ROE is net income over stockholders' equity, as a percentage.
func ROE(report *data.FinancialReport) *float64 {
	return ratio(report.NetIncome, report.StockholdersEquity, 100)
}

func NetMargin(report *data.FinancialReport) *float64 {
	return ratio(report.NetIncome, report.Revenue, 100)
}

func GrossMargin(report *data.FinancialReport) *float64 {
	return ratio(report.GrossProfit, report.Revenue, 100)
}

func OperatingMargin(report *data.FinancialReport) *float64 {
	return ratio(report.OperatingProfit, report.Revenue, 100)
}

func AssetTurnover(report *data.FinancialReport) *float64 {
	return ratio(report.Revenue, report.TotalAssets, 1)
}

func EquityMultiplier(report *data.FinancialReport) *float64 {
	return ratio(report.TotalAssets, report.StockholdersEquity, 1)
}

func InventoryTurnoverDays(report *data.FinancialReport) *int64 {
	return ratioDays(report.Inventory, report.CostOfGoodsSold)
}

func AccountsReceivableTurnoverDays(report *data.FinancialReport) *int64 {
	return ratioDays(report.AccountsReceivable, report.Revenue)
}

func CurrentRatio(report *data.FinancialReport) *float64 {
	return ratio(report.CurrentAssets, report.CurrentLiabilities, 1)
}

// QuickRatio excludes inventory from current assets; an absent
// inventory line counts as zero inventory. The operand rule applies to
// the statement lines, not the difference: zero current assets is
// absent, a computed zero quick value is valid.
func QuickRatio(report *data.FinancialReport) *float64 {
	if report.CurrentAssets == nil || *report.CurrentAssets == 0 ||
		report.CurrentLiabilities == nil || *report.CurrentLiabilities == 0 {
		return nil
	}
	quick := *report.CurrentAssets
	if report.Inventory != nil {
		quick -= *report.Inventory
	}
	v := float64(quick) / float64(*report.CurrentLiabilities)
	return &v
}

func DebtRatio(report *data.FinancialReport) *float64 {
	return ratio(report.TotalLiabilities, report.TotalAssets, 100)
}

func CashRatio(report *data.FinancialReport) *float64 {
	return ratio(report.CashAndEquivalents, report.CurrentLiabilities, 100)
}

// GoodwillRatio reports 0 rather than absent when goodwill is missing
// or zero. This asymmetry is deliberate: no goodwill line on the
// balance sheet means no goodwill exposure, not unknown exposure.
func GoodwillRatio(report *data.FinancialReport) *float64 {
	zero := 0.0
	if report.Goodwill == nil || *report.Goodwill == 0 {
		return &zero
	}
	if r := ratio(report.Goodwill, report.TotalAssets, 100); r != nil {
		return r
	}
	return &zero
}

// PERatio is the trailing price-to-earnings multiple: latest close over
// the period's earnings per share. Absent without a priced close or a
// positive EPS.
func PERatio(latestClose *float64, report *data.FinancialReport) *float64 {
	if latestClose == nil || report.EPS == nil || *report.EPS <= 0 {
		return nil
	}
	v := *latestClose / *report.EPS
	return &v
}
