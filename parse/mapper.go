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

import "strings"

type ReportType string

const (
	ReportBalance  ReportType = "balance"
	ReportIncome   ReportType = "income"
	ReportCashFlow ReportType = "cashflow"
)

// Canonical field identifiers produced by the mapper. These match the
// column names of the financial_reports table.
const (
	FieldTotalAssets        = "total_assets"
	FieldTotalLiabilities   = "total_liabilities"
	FieldStockholdersEquity = "stockholders_equity"
	FieldCurrentAssets      = "current_assets"
	FieldCurrentLiabilities = "current_liabilities"
	FieldInventory          = "inventory"
	FieldAccountsReceivable = "accounts_receivable"
	FieldCashAndEquivalents = "cash_and_equivalents"
	FieldGoodwill           = "goodwill"
	FieldShortTermDebt      = "short_term_debt"
	FieldLongTermDebt       = "long_term_debt"
	FieldFixedAssets        = "fixed_assets"
	FieldShareCapital       = "share_capital"
	FieldRevenue            = "revenue"
	FieldCostOfGoodsSold    = "cost_of_goods_sold"
	FieldGrossProfit        = "gross_profit"
	FieldOperatingExpenses  = "operating_expenses"
	FieldOperatingProfit    = "operating_profit"
	FieldNonOperatingIncome = "non_operating_income"
	FieldNetIncome          = "net_income"
	FieldEPS                = "eps"
	FieldOperatingCashFlow  = "operating_cash_flow"
	FieldInvestingCashFlow  = "investing_cash_flow"
	FieldFinancingCashFlow  = "financing_cash_flow"
)

type fieldMapping struct {
	label string
	field string
}

// Each table is ordered: matching is substring based and first match
// wins, so more specific labels must precede labels they contain
// (e.g. 應收帳款淨額 before 應收帳款). Report vintages vary their
// phrasing; extend the tables, not the matching logic.
var labelTables = map[ReportType][]fieldMapping{
	ReportBalance: {
		{"資產總計", FieldTotalAssets},
		{"負債總計", FieldTotalLiabilities},
		{"權益總額", FieldStockholdersEquity},
		{"流動資產", FieldCurrentAssets},
		{"流動負債", FieldCurrentLiabilities},
		{"存貨", FieldInventory},
		{"應收帳款淨額", FieldAccountsReceivable},
		{"應收帳款", FieldAccountsReceivable},
		{"現金及約當現金", FieldCashAndEquivalents},
		{"商譽", FieldGoodwill},
		{"短期借款", FieldShortTermDebt},
		{"長期借款", FieldLongTermDebt},
		{"不動產、廠房及設備", FieldFixedAssets},
		{"固定資產", FieldFixedAssets},
		{"普通股股本", FieldShareCapital},
	},
	ReportIncome: {
		{"營業收入", FieldRevenue},
		{"營業成本", FieldCostOfGoodsSold},
		{"營業毛利", FieldGrossProfit},
		{"營業費用", FieldOperatingExpenses},
		{"營業利益", FieldOperatingProfit},
		{"營業外收入及支出", FieldNonOperatingIncome},
		{"本期淨利", FieldNetIncome},
		{"本期綜合損益總額", FieldNetIncome},
		{"基本每股盈餘", FieldEPS},
	},
	ReportCashFlow: {
		{"營業活動之淨現金流入", FieldOperatingCashFlow},
		{"營業活動之淨現金流量", FieldOperatingCashFlow},
		{"投資活動之淨現金流入", FieldInvestingCashFlow},
		{"投資活動之淨現金流量", FieldInvestingCashFlow},
		{"籌資活動之淨現金流入", FieldFinancingCashFlow},
		{"籌資活動之淨現金流量", FieldFinancingCashFlow},
	},
}

// Field maps a raw statement row label to its canonical field
// identifier. Unrecognized labels report false and the row is ignored
// by callers.
func Field(report ReportType, label string) (string, bool) {
	for _, m := range labelTables[report] {
		if strings.Contains(label, m.label) {
			return m.field, true
		}
	}

	return "", false
}
