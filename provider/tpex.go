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
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/chiachunli08/stock-analysis/data"
	"github.com/chiachunli08/stock-analysis/parse"
)

const (
	tpexRosterURL     = "https://www.tpex.org.tw/web/stock/aftertrading/daily_close_quotes/stk_quote_result.php"
	tpexDailyPriceURL = "https://www.tpex.org.tw/web/stock/aftertrading/daily_trading_info/stk_price_result.php"

	// TPEX reports volume in thousands of shares; TWSE reports shares
	tpexVolumeScale = 1000
)

// TPEX adapts the Taipei Exchange (over the counter) feeds.
type TPEX struct {
	client  *resty.Client
	limiter *rate.Limiter
}

func NewTPEX() *TPEX {
	return &TPEX{
		client:  newClient(),
		limiter: newLimiter(),
	}
}

// Roster fetches the OTC company roster from the daily close quote
// table.
func (tpex *TPEX) Roster(ctx context.Context) ([]*data.Company, error) {
	if err := tpex.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := tpex.client.R().
		SetContext(ctx).
		Get(tpexRosterURL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	rows := gjson.GetBytes(resp.Body(), "aaData").Array()
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	companies := make([]*data.Company, 0, len(rows))
	for _, row := range rows {
		cells := rowStrings(row)
		if len(cells) < 2 || cells[0] == "" {
			continue
		}
		companies = append(companies, &data.Company{
			StockCode: cells[0],
			Name:      cells[1],
			Market:    data.MarketOTC,
		})
	}

	return companies, nil
}

// MonthlyPrices fetches the monthly trading table for one OTC stock,
// oldest trading day first. The month is addressed in ROC calendar
// notation.
func (tpex *TPEX) MonthlyPrices(ctx context.Context, stockCode string, target time.Time) ([]*data.StockPrice, error) {
	if err := tpex.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := tpex.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"l":     "zh-tw",
			"d":     fmt.Sprintf("%d/%02d", parse.ROCYear(target.Year()), int(target.Month())),
			"stkno": stockCode,
		}).
		Get(tpexDailyPriceURL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return parseDailyRows(stockCode, gjson.GetBytes(resp.Body(), "aaData").Array(), tpexVolumeScale)
}

// DailyPrice returns the latest available trading day in the target
// date's month.
func (tpex *TPEX) DailyPrice(ctx context.Context, stockCode string, target time.Time) (*data.StockPrice, error) {
	prices, err := tpex.MonthlyPrices(ctx, stockCode, target)
	if err != nil {
		return nil, err
	}
	return prices[len(prices)-1], nil
}
