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

// StockPrice is one trading day for one company. Numeric fields are
// pointers because the exchange marks halted or missing observations
// with placeholder tokens; those stay NULL rather than zero.
type StockPrice struct {
	StockCode     string    `db:"stock_code"`
	Date          time.Time `db:"event_date"`
	Open          *float64  `db:"open"`
	High          *float64  `db:"high"`
	Low           *float64  `db:"low"`
	Close         *float64  `db:"close"`
	Volume        *int64    `db:"volume"`
	Turnover      *int64    `db:"turnover"`
	ChangeAmount  *float64  `db:"change_amount"`
	ChangePercent *float64  `db:"change_percent"`
}

func (price *StockPrice) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := `INSERT INTO stock_prices (
		"stock_code",
		"event_date",
		"open",
		"high",
		"low",
		"close",
		"volume",
		"turnover",
		"change_amount",
		"change_percent"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	) ON CONFLICT (stock_code, event_date)
	DO UPDATE SET
		open = EXCLUDED.open,
		high = EXCLUDED.high,
		low = EXCLUDED.low,
		close = EXCLUDED.close,
		volume = EXCLUDED.volume,
		turnover = EXCLUDED.turnover,
		change_amount = EXCLUDED.change_amount,
		change_percent = EXCLUDED.change_percent;`

	if _, err := tx.Exec(ctx, sql, price.StockCode, price.Date, price.Open, price.High,
		price.Low, price.Close, price.Volume, price.Turnover, price.ChangeAmount,
		price.ChangePercent); err != nil {
		log.Error().Err(err).Str("StockCode", price.StockCode).Time("Date", price.Date).
			Msg("error saving stock price to database")
	}

	return tx.Commit(ctx)
}
