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

// Package data holds the typed records written to the stock library.
// Every record carries its own SaveDB method performing an idempotent
// upsert keyed on the record's natural key; re-running any ingestion
// job therefore converges on the same rows.
package data

import "time"

// Market identifies which exchange lists a company.
type Market string

const (
	MarketListed Market = "上市" // Taiwan Stock Exchange
	MarketOTC    Market = "上櫃" // Taipei Exchange (over the counter)
)

type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
	RunPartial RunStatus = "partial"
	RunSkipped RunStatus = "skipped"
)

// Observation is the unit of work flowing from source adapters to the
// store writer. Exactly one of the record pointers is set.
type Observation struct {
	Company         *Company
	Price           *StockPrice
	FinancialReport *FinancialReport
	Indicator       *Indicator
	Trend           *Trend

	ObservationDate time.Time
	JobName         string
}

// RunSummary reports the outcome of one top-level job.
type RunSummary struct {
	JobName         string
	StartTime       time.Time
	EndTime         time.Time
	NumObservations int
	NumCompanies    int
	NumFailures     int
	Status          RunStatus
}
