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
package store

import (
	"context"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/chiachunli08/stock-analysis/data"
)

// Companies returns the full roster ordered by stock code.
func (myStore *Store) Companies(ctx context.Context) ([]*data.Company, error) {
	var companies []*data.Company
	err := pgxscan.Select(ctx, myStore.Pool, &companies,
		`SELECT stock_code, name, name_abbr, industry, market, listing_date, capital
FROM companies ORDER BY stock_code`)
	return companies, err
}

// CompanyByCode fetches a single company by its exchange code.
func (myStore *Store) CompanyByCode(ctx context.Context, stockCode string) (*data.Company, error) {
	company := &data.Company{}
	err := pgxscan.Get(ctx, myStore.Pool, company,
		`SELECT stock_code, name, name_abbr, industry, market, listing_date, capital
FROM companies WHERE stock_code = $1`, stockCode)
	if err != nil {
		return nil, err
	}
	return company, nil
}

// RecentReports returns up to limit statement rows for a company,
// newest period first.
func (myStore *Store) RecentReports(ctx context.Context, stockCode string, limit int) ([]*data.FinancialReport, error) {
	var reports []*data.FinancialReport
	err := pgxscan.Select(ctx, myStore.Pool, &reports,
		`SELECT stock_code, fiscal_year, fiscal_season, report_date, total_assets,
total_liabilities, stockholders_equity, current_assets, current_liabilities,
inventory, accounts_receivable, cash_and_equivalents, goodwill, short_term_debt,
long_term_debt, fixed_assets, share_capital, revenue, cost_of_goods_sold,
gross_profit, operating_expenses, operating_profit, non_operating_income,
net_income, eps, operating_cash_flow, investing_cash_flow, financing_cash_flow
FROM financial_reports WHERE stock_code = $1
ORDER BY report_date DESC LIMIT $2`, stockCode, limit)
	return reports, err
}

// LatestClose returns the most recent closing price for a company, or
// nil when no priced trading day exists.
func (myStore *Store) LatestClose(ctx context.Context, stockCode string) (*float64, error) {
	var closePrice *float64
	err := myStore.Pool.QueryRow(ctx,
		`SELECT close FROM stock_prices WHERE stock_code = $1 AND close IS NOT NULL
ORDER BY event_date DESC LIMIT 1`, stockCode).Scan(&closePrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return closePrice, nil
}

// ClosePoint is one (date, close) pair from the price history.
type ClosePoint struct {
	Date  time.Time `db:"event_date"`
	Close float64   `db:"close"`
}

// PriceWindow returns the most recent up-to-maxDays closes for a
// company in ascending date order.
func (myStore *Store) PriceWindow(ctx context.Context, stockCode string, maxDays int) ([]ClosePoint, error) {
	var window []ClosePoint
	err := pgxscan.Select(ctx, myStore.Pool, &window,
		`SELECT event_date, close FROM (
	SELECT event_date, close FROM stock_prices
	WHERE stock_code = $1 AND close IS NOT NULL
	ORDER BY event_date DESC LIMIT $2
) recent ORDER BY event_date ASC`, stockCode, maxDays)
	return window, err
}

// TableCounts summarizes row counts for the info command.
func (myStore *Store) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, 6)
	for _, tbl := range []string{"companies", "stock_prices", "financial_reports", "indicators", "trend_analysis", "job_logs"} {
		var count int64
		// table names come from the fixed list above, never from input
		if err := myStore.Pool.QueryRow(ctx, "SELECT count(*) FROM "+tbl).Scan(&count); err != nil {
			return nil, err
		}
		counts[tbl] = count
	}
	return counts, nil
}

// LastJobRuns returns the most recent audit row per job name.
func (myStore *Store) LastJobRuns(ctx context.Context) ([]*data.JobLog, error) {
	var logs []*data.JobLog
	err := pgxscan.Select(ctx, myStore.Pool, &logs,
		`SELECT DISTINCT ON (job_name) id, job_name, status, records_processed,
coalesce(error_message, '') AS error_message, started_at, completed_at
FROM job_logs ORDER BY job_name, started_at DESC`)
	return logs, err
}
