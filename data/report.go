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
package data

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// FinancialReport is one quarterly disclosure, merged from the balance
// sheet, income statement, and cash flow sub-reports. The natural key
// is (stock_code, fiscal year, fiscal season). Monetary amounts are in
// thousands of TWD as filed; all fields are nullable because filings
// routinely omit line items.
type FinancialReport struct {
	StockCode  string    `db:"stock_code"`
	Year       int       `db:"fiscal_year"`
	Season     int       `db:"fiscal_season"`
	ReportDate time.Time `db:"report_date"`

	// balance sheet
	TotalAssets        *int64 `db:"total_assets"`
	TotalLiabilities   *int64 `db:"total_liabilities"`
	StockholdersEquity *int64 `db:"stockholders_equity"`
	CurrentAssets      *int64 `db:"current_assets"`
	CurrentLiabilities *int64 `db:"current_liabilities"`
	Inventory          *int64 `db:"inventory"`
	AccountsReceivable *int64 `db:"accounts_receivable"`
	CashAndEquivalents *int64 `db:"cash_and_equivalents"`
	Goodwill           *int64 `db:"goodwill"`
	ShortTermDebt      *int64 `db:"short_term_debt"`
	LongTermDebt       *int64 `db:"long_term_debt"`
	FixedAssets        *int64 `db:"fixed_assets"`
	ShareCapital       *int64 `db:"share_capital"`

	// income statement
	Revenue            *int64   `db:"revenue"`
	CostOfGoodsSold    *int64   `db:"cost_of_goods_sold"`
	GrossProfit        *int64   `db:"gross_profit"`
	OperatingExpenses  *int64   `db:"operating_expenses"`
	OperatingProfit    *int64   `db:"operating_profit"`
	NonOperatingIncome *int64   `db:"non_operating_income"`
	NetIncome          *int64   `db:"net_income"`
	EPS                *float64 `db:"eps"`

	// cash flow statement
	OperatingCashFlow *int64 `db:"operating_cash_flow"`
	InvestingCashFlow *int64 `db:"investing_cash_flow"`
	FinancingCashFlow *int64 `db:"financing_cash_flow"`
}

// SetField assigns a raw token to the canonical field identified by
// the label mapper. Mapping is explicit field-by-field; unknown
// identifiers are ignored. Tokens that fail to parse leave the field
// absent.
func (report *FinancialReport) SetField(field string, intVal *int64, numVal *float64) {
	switch field {
	case "total_assets":
		report.TotalAssets = intVal
	case "total_liabilities":
		report.TotalLiabilities = intVal
	case "stockholders_equity":
		report.StockholdersEquity = intVal
	case "current_assets":
		report.CurrentAssets = intVal
	case "current_liabilities":
		report.CurrentLiabilities = intVal
	case "inventory":
		report.Inventory = intVal
	case "accounts_receivable":
		report.AccountsReceivable = intVal
	case "cash_and_equivalents":
		report.CashAndEquivalents = intVal
	case "goodwill":
		report.Goodwill = intVal
	case "short_term_debt":
		report.ShortTermDebt = intVal
	case "long_term_debt":
		report.LongTermDebt = intVal
	case "fixed_assets":
		report.FixedAssets = intVal
	case "share_capital":
		report.ShareCapital = intVal
	case "revenue":
		report.Revenue = intVal
	case "cost_of_goods_sold":
		report.CostOfGoodsSold = intVal
	case "gross_profit":
		report.GrossProfit = intVal
	case "operating_expenses":
		report.OperatingExpenses = intVal
	case "operating_profit":
		report.OperatingProfit = intVal
	case "non_operating_income":
		report.NonOperatingIncome = intVal
	case "net_income":
		report.NetIncome = intVal
	case "eps":
		report.EPS = numVal
	case "operating_cash_flow":
		report.OperatingCashFlow = intVal
	case "investing_cash_flow":
		report.InvestingCashFlow = intVal
	case "financing_cash_flow":
		report.FinancingCashFlow = intVal
	}
}

// Empty reports whether no statement field was populated; periods with
// zero successful sub-reports are skipped entirely.
func (report *FinancialReport) Empty() bool {
	return report.TotalAssets == nil && report.TotalLiabilities == nil &&
		report.StockholdersEquity == nil && report.CurrentAssets == nil &&
		report.CurrentLiabilities == nil && report.Inventory == nil &&
		report.AccountsReceivable == nil && report.CashAndEquivalents == nil &&
		report.Goodwill == nil && report.ShortTermDebt == nil &&
		report.LongTermDebt == nil && report.FixedAssets == nil &&
		report.ShareCapital == nil && report.Revenue == nil &&
		report.CostOfGoodsSold == nil && report.GrossProfit == nil &&
		report.OperatingExpenses == nil && report.OperatingProfit == nil &&
		report.NonOperatingIncome == nil && report.NetIncome == nil &&
		report.EPS == nil && report.OperatingCashFlow == nil &&
		report.InvestingCashFlow == nil && report.FinancingCashFlow == nil
}

func (report *FinancialReport) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := `INSERT INTO financial_reports (
		"stock_code",
		"fiscal_year",
		"fiscal_season",
		"report_date",
		"total_assets",
		"total_liabilities",
		"stockholders_equity",
		"current_assets",
		"current_liabilities",
		"inventory",
		"accounts_receivable",
		"cash_and_equivalents",
		"goodwill",
		"short_term_debt",
		"long_term_debt",
		"fixed_assets",
		"share_capital",
		"revenue",
		"cost_of_goods_sold",
		"gross_profit",
		"operating_expenses",
		"operating_profit",
		"non_operating_income",
		"net_income",
		"eps",
		"operating_cash_flow",
		"investing_cash_flow",
		"financing_cash_flow"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
	) ON CONFLICT (stock_code, fiscal_year, fiscal_season)
	DO UPDATE SET
		report_date = EXCLUDED.report_date,
		total_assets = EXCLUDED.total_assets,
		total_liabilities = EXCLUDED.total_liabilities,
		stockholders_equity = EXCLUDED.stockholders_equity,
		current_assets = EXCLUDED.current_assets,
		current_liabilities = EXCLUDED.current_liabilities,
		inventory = EXCLUDED.inventory,
		accounts_receivable = EXCLUDED.accounts_receivable,
		cash_and_equivalents = EXCLUDED.cash_and_equivalents,
		goodwill = EXCLUDED.goodwill,
		short_term_debt = EXCLUDED.short_term_debt,
		long_term_debt = EXCLUDED.long_term_debt,
		fixed_assets = EXCLUDED.fixed_assets,
		share_capital = EXCLUDED.share_capital,
		revenue = EXCLUDED.revenue,
		cost_of_goods_sold = EXCLUDED.cost_of_goods_sold,
		gross_profit = EXCLUDED.gross_profit,
		operating_expenses = EXCLUDED.operating_expenses,
		operating_profit = EXCLUDED.operating_profit,
		non_operating_income = EXCLUDED.non_operating_income,
		net_income = EXCLUDED.net_income,
		eps = EXCLUDED.eps,
		operating_cash_flow = EXCLUDED.operating_cash_flow,
		investing_cash_flow = EXCLUDED.investing_cash_flow,
		financing_cash_flow = EXCLUDED.financing_cash_flow;`

	if _, err := tx.Exec(ctx, sql, report.StockCode, report.Year, report.Season,
		report.ReportDate, report.TotalAssets, report.TotalLiabilities,
		report.StockholdersEquity, report.CurrentAssets, report.CurrentLiabilities,
		report.Inventory, report.AccountsReceivable, report.CashAndEquivalents,
		report.Goodwill, report.ShortTermDebt, report.LongTermDebt, report.FixedAssets,
		report.ShareCapital, report.Revenue, report.CostOfGoodsSold, report.GrossProfit,
		report.OperatingExpenses, report.OperatingProfit, report.NonOperatingIncome,
		report.NetIncome, report.EPS, report.OperatingCashFlow, report.InvestingCashFlow,
		report.FinancingCashFlow); err != nil {
		log.Error().Err(err).Str("StockCode", report.StockCode).Int("Year", report.Year).
			Int("Season", report.Season).Msg("error saving financial report to database")
	}

	return tx.Commit(ctx)
}
