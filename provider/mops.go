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
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/chiachunli08/stock-analysis/data"
	"github.com/chiachunli08/stock-analysis/parse"
)

// statement sub-report endpoints on the Market Observation Post System
var mopsEndpoints = map[parse.ReportType]string{
	parse.ReportBalance:  "https://mops.twse.com.tw/mops/web/ajax_t164sb01",
	parse.ReportIncome:   "https://mops.twse.com.tw/mops/web/ajax_t164sb04",
	parse.ReportCashFlow: "https://mops.twse.com.tw/mops/web/ajax_t164sb05",
}

var statementOrder = []parse.ReportType{parse.ReportBalance, parse.ReportIncome, parse.ReportCashFlow}

// MOPS adapts the regulatory filing site serving quarterly financial
// statements as HTML table documents.
type MOPS struct {
	client  *resty.Client
	limiter *rate.Limiter
}

func NewMOPS() *MOPS {
	return &MOPS{
		client:  newClient(),
		limiter: newLimiter(),
	}
}

// Report fetches and merges the balance sheet, income statement, and
// cash flow sub-reports for one statement period. A failing sub-report
// does not block the other two; ErrNoData is returned only when all
// three produced nothing, in which case no record is created for the
// period.
func (mops *MOPS) Report(ctx context.Context, stockCode string, year int, season int) (*data.FinancialReport, error) {
	logger := zerolog.Ctx(ctx)

	report := &data.FinancialReport{
		StockCode:  stockCode,
		Year:       year,
		Season:     season,
		ReportDate: time.Date(year, time.Month(season*3), 15, 0, 0, 0, 0, time.UTC),
	}

	for _, reportType := range statementOrder {
		if err := mops.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		html, err := mops.fetchStatement(ctx, reportType, stockCode, year, season)
		if err != nil {
			logger.Warn().Err(err).Str("StockCode", stockCode).Int("Year", year).
				Int("Season", season).Str("ReportType", string(reportType)).
				Msg("statement sub-report fetch failed")
			continue
		}

		applyStatement(report, ExtractStatement(reportType, html))
	}

	if report.Empty() {
		return nil, ErrNoData
	}

	return report, nil
}

func (mops *MOPS) fetchStatement(ctx context.Context, reportType parse.ReportType, stockCode string, year int, season int) (string, error) {
	resp, err := mops.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"encodeURIComponent": "1",
			"step":               "1",
			"firstin":            "1",
			"off":                "1",
			"queryName":          "co_id",
			"inpuType":           "co_id",
			"TYPEK":              "all",
			"isnew":              "false",
			"co_id":              stockCode,
			"year":               strconv.Itoa(parse.ROCYear(year)),
			"season":             fmt.Sprintf("0%d", season),
		}).
		Post(mopsEndpoints[reportType])
	if err != nil {
		return "", err
	}

	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return resp.String(), nil
}

// ExtractStatement pulls label/value rows out of a MOPS table document
// and maps the labels it recognizes to canonical field identifiers.
// The data table carries the hasBorder class; rows whose label the
// mapper does not know are ignored. When a label appears more than
// once the last row wins.
func ExtractStatement(reportType parse.ReportType, html string) map[string]string {
	fields := make(map[string]string)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fields
	}

	doc.Find("table.hasBorder tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		label := strings.TrimSpace(cells.Eq(0).Text())
		if field, ok := parse.Field(reportType, label); ok {
			fields[field] = strings.TrimSpace(cells.Eq(1).Text())
		}
	})

	return fields
}

// applyStatement writes extracted tokens into the merged record.
// Unparseable tokens leave the field absent.
func applyStatement(report *data.FinancialReport, fields map[string]string) {
	for field, tok := range fields {
		if field == parse.FieldEPS {
			report.SetField(field, nil, numPtr(tok))
		} else {
			report.SetField(field, intPtr(tok), nil)
		}
	}
}
