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

// Company is the identity record for a listed or OTC equity. The
// exchange stock code is the natural key. Roster refreshes carry only
// the name and market; the other descriptive fields are written on
// first insert and left alone on conflict so a richer source can fill
// them without the roster blanking them on the next refresh.
type Company struct {
	StockCode   string     `db:"stock_code"`
	Name        string     `db:"name"`
	NameAbbr    string     `db:"name_abbr"`
	Industry    string     `db:"industry"`
	Market      Market     `db:"market"`
	ListingDate *time.Time `db:"listing_date"`
	Capital     *int64     `db:"capital"`
}

func (company *Company) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := `INSERT INTO companies (
		"stock_code",
		"name",
		"name_abbr",
		"industry",
		"market",
		"listing_date",
		"capital"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	) ON CONFLICT (stock_code)
	DO UPDATE SET
		name = EXCLUDED.name,
		market = EXCLUDED.market;`

	if _, err := tx.Exec(ctx, sql, company.StockCode, company.Name, company.NameAbbr,
		company.Industry, company.Market, company.ListingDate, company.Capital); err != nil {
		log.Error().Err(err).Str("StockCode", company.StockCode).Msg("error saving company to database")
	}

	return tx.Commit(ctx)
}
