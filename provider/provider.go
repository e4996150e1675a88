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

// Package provider contains one adapter per upstream data source. Each
// adapter encapsulates its endpoint shapes and pagination and converts
// native payloads into canonical records. Adapters throttle their own
// requests; concurrency belongs to the orchestrator and happens across
// companies, never within one company's fetch sequence.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/chiachunli08/stock-analysis/data"
	"github.com/chiachunli08/stock-analysis/parse"
)

// PriceSource is the common surface of the exchange price feeds. The
// orchestrator selects the source by the company's listing market.
type PriceSource interface {
	DailyPrice(ctx context.Context, stockCode string, target time.Time) (*data.StockPrice, error)
	MonthlyPrices(ctx context.Context, stockCode string, target time.Time) ([]*data.StockPrice, error)
}

var (
	// ErrStatus marks a non-200 response; callers may retry
	ErrStatus = errors.New("unexpected status code")

	// ErrNoData marks a well-formed response carrying no usable rows
	ErrNoData = errors.New("upstream returned no data")
)

const (
	requestTimeout = 30 * time.Second

	// minimum spacing between consecutive requests to the same host;
	// the exchanges block clients that poll faster
	minRequestInterval = 500 * time.Millisecond
)

func newClient() *resty.Client {
	client := resty.New().SetTimeout(requestTimeout)
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal
	return client
}

func newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(minRequestInterval), 1)
}

// pointer helpers bridging the normalizer's (value, ok) results into
// the nullable record fields

func numPtr(tok string) *float64 {
	if v, ok := parse.Number(tok); ok {
		return &v
	}
	return nil
}

func intPtr(tok string) *int64 {
	if v, ok := parse.Integer(tok); ok {
		return &v
	}
	return nil
}

func pctPtr(tok string) *float64 {
	if v, ok := parse.Percent(tok); ok {
		return &v
	}
	return nil
}
