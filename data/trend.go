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

// Trend is one linear trend channel calculation for one company on one
// calculation date.
type Trend struct {
	StockCode       string    `db:"stock_code"`
	CalculationDate time.Time `db:"calculation_date"`
	PeriodDays      int       `db:"period_days"`
	TrendLine       float64   `db:"trend_line"`
	SDPlus2         float64   `db:"sd_plus_2"`
	SDPlus1         float64   `db:"sd_plus_1"`
	SDMinus1        float64   `db:"sd_minus_1"`
	SDMinus2        float64   `db:"sd_minus_2"`
	CurrentPrice    float64   `db:"current_price"`
	Position        string    `db:"position"`
	RSquared        float64   `db:"r_squared"`
}

func (trend *Trend) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := `INSERT INTO trend_analysis (
		"stock_code",
		"calculation_date",
		"period_days",
		"trend_line",
		"sd_plus_2",
		"sd_plus_1",
		"sd_minus_1",
		"sd_minus_2",
		"current_price",
		"position",
		"r_squared"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	) ON CONFLICT (stock_code, calculation_date)
	DO UPDATE SET
		period_days = EXCLUDED.period_days,
		trend_line = EXCLUDED.trend_line,
		sd_plus_2 = EXCLUDED.sd_plus_2,
		sd_plus_1 = EXCLUDED.sd_plus_1,
		sd_minus_1 = EXCLUDED.sd_minus_1,
		sd_minus_2 = EXCLUDED.sd_minus_2,
		current_price = EXCLUDED.current_price,
		position = EXCLUDED.position,
		r_squared = EXCLUDED.r_squared;`

	if _, err := tx.Exec(ctx, sql, trend.StockCode, trend.CalculationDate, trend.PeriodDays,
		trend.TrendLine, trend.SDPlus2, trend.SDPlus1, trend.SDMinus1, trend.SDMinus2,
		trend.CurrentPrice, trend.Position, trend.RSquared); err != nil {
		log.Error().Err(err).Str("StockCode", trend.StockCode).Msg("error saving trend analysis to database")
	}

	return tx.Commit(ctx)
}
