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

// Indicator is one derived snapshot per statement period. A nil ratio
// means the operands were absent or the denominator was zero; a ratio
// is never silently substituted with zero (goodwill ratio excepted,
// which reports 0 when goodwill is absent).
type Indicator struct {
	StockCode  string    `db:"stock_code"`
	Year       int       `db:"fiscal_year"`
	Season     int       `db:"fiscal_season"`
	ReportDate time.Time `db:"report_date"`

	ROE                            *float64 `db:"roe"`
	NetMargin                      *float64 `db:"net_margin"`
	GrossMargin                    *float64 `db:"gross_margin"`
	OperatingMargin                *float64 `db:"operating_margin"`
	AssetTurnover                  *float64 `db:"asset_turnover"`
	EquityMultiplier               *float64 `db:"equity_multiplier"`
	InventoryTurnoverDays          *int64   `db:"inventory_turnover_days"`
	AccountsReceivableTurnoverDays *int64   `db:"accounts_receivable_turnover_days"`
	CurrentRatio                   *float64 `db:"current_ratio"`
	QuickRatio                     *float64 `db:"quick_ratio"`
	DebtRatio                      *float64 `db:"debt_ratio"`
	CashRatio                      *float64 `db:"cash_ratio"`
	GoodwillRatio                  *float64 `db:"goodwill_ratio"`
	PETTM                          *float64 `db:"pe_ttm"`

	FScore   int    `db:"f_score"`
	CBSScore int    `db:"cbs_score"`
	Signal   string `db:"signal"`
}

func (indicator *Indicator) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := `INSERT INTO indicators (
		"stock_code",
		"fiscal_year",
		"fiscal_season",
		"report_date",
		"roe",
		"net_margin",
		"gross_margin",
		"operating_margin",
		"asset_turnover",
		"equity_multiplier",
		"inventory_turnover_days",
		"accounts_receivable_turnover_days",
		"current_ratio",
		"quick_ratio",
		"debt_ratio",
		"cash_ratio",
		"goodwill_ratio",
		"pe_ttm",
		"f_score",
		"cbs_score",
		"signal"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18, $19, $20, $21
	) ON CONFLICT (stock_code, fiscal_year, fiscal_season)
	DO UPDATE SET
		report_date = EXCLUDED.report_date,
		roe = EXCLUDED.roe,
		net_margin = EXCLUDED.net_margin,
		gross_margin = EXCLUDED.gross_margin,
		operating_margin = EXCLUDED.operating_margin,
		asset_turnover = EXCLUDED.asset_turnover,
		equity_multiplier = EXCLUDED.equity_multiplier,
		inventory_turnover_days = EXCLUDED.inventory_turnover_days,
		accounts_receivable_turnover_days = EXCLUDED.accounts_receivable_turnover_days,
		current_ratio = EXCLUDED.current_ratio,
		quick_ratio = EXCLUDED.quick_ratio,
		debt_ratio = EXCLUDED.debt_ratio,
		cash_ratio = EXCLUDED.cash_ratio,
		goodwill_ratio = EXCLUDED.goodwill_ratio,
		pe_ttm = EXCLUDED.pe_ttm,
		f_score = EXCLUDED.f_score,
		cbs_score = EXCLUDED.cbs_score,
		signal = EXCLUDED.signal;`

	if _, err := tx.Exec(ctx, sql, indicator.StockCode, indicator.Year, indicator.Season,
		indicator.ReportDate, indicator.ROE, indicator.NetMargin, indicator.GrossMargin,
		indicator.OperatingMargin, indicator.AssetTurnover, indicator.EquityMultiplier,
		indicator.InventoryTurnoverDays, indicator.AccountsReceivableTurnoverDays,
		indicator.CurrentRatio, indicator.QuickRatio, indicator.DebtRatio,
		indicator.CashRatio, indicator.GoodwillRatio, indicator.PETTM,
		indicator.FScore, indicator.CBSScore, indicator.Signal); err != nil {
		log.Error().Err(err).Str("StockCode", indicator.StockCode).Int("Year", indicator.Year).
			Int("Season", indicator.Season).Msg("error saving indicator to database")
	}

	return tx.Commit(ctx)
}
