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
	twseRosterURL     = "https://openapi.twse.com.tw/v1/exchangeReport/STOCK_DAY_ALL"
	twseDailyPriceURL = "https://www.twse.com.tw/exchangeReport/STOCK_DAY"
)

// TWSE adapts the Taiwan Stock Exchange feeds: the listed-company
// roster and per-stock daily price tables.
type TWSE struct {
	client  *resty.Client
	limiter *rate.Limiter
}

func NewTWSE() *TWSE {
	return &TWSE{
		client:  newClient(),
		limiter: newLimiter(),
	}
}

type twseListing struct {
	Code string `json:"Code"`
	Name string `json:"Name"`
}

// Roster fetches the listed-company roster.
func (twse *TWSE) Roster(ctx context.Context) ([]*data.Company, error) {
	if err := twse.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	listings := make([]twseListing, 0)
	resp, err := twse.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&listings).
		Get(twseRosterURL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	companies := make([]*data.Company, 0, len(listings))
	for _, listing := range listings {
		if listing.Code == "" {
			continue
		}
		companies = append(companies, &data.Company{
			StockCode: listing.Code,
			Name:      listing.Name,
			Market:    data.MarketListed,
		})
	}

	return companies, nil
}

// MonthlyPrices fetches the daily price table for one stock covering
// the month of the target date, oldest trading day first.
func (twse *TWSE) MonthlyPrices(ctx context.Context, stockCode string, target time.Time) ([]*data.StockPrice, error) {
	if err := twse.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := twse.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"response": "json",
			"date":     target.Format("20060102"),
			"stockNo":  stockCode,
		}).
		Get(twseDailyPriceURL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	body := resp.Body()
	if gjson.GetBytes(body, "stat").String() != "OK" {
		return nil, ErrNoData
	}

	return parseDailyRows(stockCode, gjson.GetBytes(body, "data").Array(), 1)
}

// DailyPrice returns the latest available trading day in the target
// date's month.
func (twse *TWSE) DailyPrice(ctx context.Context, stockCode string, target time.Time) (*data.StockPrice, error) {
	prices, err := twse.MonthlyPrices(ctx, stockCode, target)
	if err != nil {
		return nil, err
	}
	return prices[len(prices)-1], nil
}

// parseDailyRows converts a month of table rows, dropping rows that
// fail to parse. An empty table is no data.
func parseDailyRows(stockCode string, rows []gjson.Result, volumeScale int64) ([]*data.StockPrice, error) {
	prices := make([]*data.StockPrice, 0, len(rows))
	for _, row := range rows {
		price, err := parseDailyRow(stockCode, rowStrings(row), volumeScale)
		if err != nil {
			continue
		}
		prices = append(prices, price)
	}

	if len(prices) == 0 {
		return nil, ErrNoData
	}
	return prices, nil
}

func rowStrings(row gjson.Result) []string {
	values := row.Array()
	cells := make([]string, 0, len(values))
	for _, v := range values {
		cells = append(cells, v.String())
	}
	return cells
}

// parseDailyRow normalizes one exchange price row. Both exchanges use
// the same nine column layout: date, volume, turnover, open, high,
// low, close, change amount, change percent. volumeScale corrects the
// unit difference between the exchanges.
func parseDailyRow(stockCode string, cells []string, volumeScale int64) (*data.StockPrice, error) {
	if len(cells) < 9 {
		return nil, ErrNoData
	}

	date, ok := parse.ROCDate(cells[0])
	if !ok {
		return nil, ErrNoData
	}

	price := &data.StockPrice{
		StockCode:     stockCode,
		Date:          date,
		Volume:        intPtr(cells[1]),
		Turnover:      intPtr(cells[2]),
		Open:          numPtr(cells[3]),
		High:          numPtr(cells[4]),
		Low:           numPtr(cells[5]),
		Close:         numPtr(cells[6]),
		ChangeAmount:  numPtr(cells[7]),
		ChangePercent: pctPtr(cells[8]),
	}

	if price.Volume != nil && volumeScale != 1 {
		scaled := *price.Volume * volumeScale
		price.Volume = &scaled
	}

	return price, nil
}
