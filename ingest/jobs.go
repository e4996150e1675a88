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
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/chiachunli08/stock-analysis/data"
	"github.com/chiachunli08/stock-analysis/indicator"
	"github.com/chiachunli08/stock-analysis/provider"
	"github.com/chiachunli08/stock-analysis/trend"
)

// Top-level job names, as used by the run command, the scheduler
// configuration, and the job log.
const (
	JobRefreshRoster     = "refresh-roster"
	JobFetchDailyPrices  = "fetch-daily-prices"
	JobBackfillPrices    = "backfill-prices"
	JobFetchReports      = "fetch-reports"
	JobFetchAllReports   = "fetch-all-reports"
	JobComputeIndicators = "compute-indicators"
	JobComputeTrends     = "compute-trends"
)

// RefreshRoster pulls the company rosters from both exchanges and
// upserts them. The job fails outright only when both feeds fail.
func (orch *Orchestrator) RefreshRoster(ctx context.Context) (*data.RunSummary, error) {
	return orch.run(ctx, JobRefreshRoster, func(ctx context.Context, queue *countingQueue, _ time.Time) error {
		var companies []*data.Company

		twseErr := orch.retry(ctx, func() error {
			listed, err := orch.TWSE.Roster(ctx)
			if err == nil {
				companies = append(companies, listed...)
			}
			return err
		})
		if twseErr != nil {
			queue.failed()
		}

		tpexErr := orch.retry(ctx, func() error {
			otc, err := orch.TPEX.Roster(ctx)
			if err == nil {
				companies = append(companies, otc...)
			}
			return err
		})
		if tpexErr != nil {
			queue.failed()
		}

		if twseErr != nil && tpexErr != nil {
			return errors.Join(twseErr, tpexErr)
		}

		for _, company := range companies {
			queue.send(&data.Observation{
				Company:         company,
				ObservationDate: time.Now(),
				JobName:         JobRefreshRoster,
			})
			queue.companyDone()
		}

		return nil
	})
}

// FetchDailyPrices fetches the latest trading day for every company on
// the roster. A company whose feed has no rows for the current month
// is skipped, not failed.
func (orch *Orchestrator) FetchDailyPrices(ctx context.Context) (*data.RunSummary, error) {
	return orch.run(ctx, JobFetchDailyPrices, func(ctx context.Context, queue *countingQueue, softEnd time.Time) error {
		companies, err := orch.Store.Companies(ctx)
		if err != nil {
			return err
		}

		target := time.Now()
		orch.forEachCompany(ctx, companies, softEnd, func(ctx context.Context, company *data.Company) {
			source := orch.priceSource(company.Market)

			var price *data.StockPrice
			fetchErr := orch.retry(ctx, func() error {
				p, err := source.DailyPrice(ctx, company.StockCode, target)
				if errors.Is(err, provider.ErrNoData) {
					return nil
				}
				if err == nil {
					price = p
				}
				return err
			})
			if fetchErr != nil {
				zerolog.Ctx(ctx).Error().Err(fetchErr).Str("StockCode", company.StockCode).
					Msg("daily price fetch failed")
				queue.failed()
				return
			}
			if price == nil {
				return
			}

			queue.send(&data.Observation{
				Price:           price,
				ObservationDate: target,
				JobName:         JobFetchDailyPrices,
			})
			queue.companyDone()
		})

		return nil
	})
}

// BackfillPrices walks the price history of one company back the given
// number of months and upserts every trading day found.
func (orch *Orchestrator) BackfillPrices(ctx context.Context, stockCode string, months int) (*data.RunSummary, error) {
	return orch.run(ctx, JobBackfillPrices, func(ctx context.Context, queue *countingQueue, softEnd time.Time) error {
		company, err := orch.Store.CompanyByCode(ctx, stockCode)
		if err != nil {
			return err
		}
		source := orch.priceSource(company.Market)

		now := time.Now()
		gotAny := false
		for month := 0; month < months; month++ {
			if time.Now().After(softEnd) {
				break
			}
			target := now.AddDate(0, -month, 0)

			var prices []*data.StockPrice
			fetchErr := orch.retry(ctx, func() error {
				p, err := source.MonthlyPrices(ctx, stockCode, target)
				if errors.Is(err, provider.ErrNoData) {
					return nil
				}
				if err == nil {
					prices = p
				}
				return err
			})
			if fetchErr != nil {
				zerolog.Ctx(ctx).Error().Err(fetchErr).Str("StockCode", stockCode).
					Time("Month", target).Msg("price backfill month failed")
				queue.failed()
				continue
			}

			for _, price := range prices {
				queue.send(&data.Observation{
					Price:           price,
					ObservationDate: now,
					JobName:         JobBackfillPrices,
				})
			}
			gotAny = gotAny || len(prices) > 0
		}

		if gotAny {
			queue.companyDone()
		}
		return nil
	})
}

// FetchReports fetches the quarterly statements of one company for the
// most recent years*4 completed periods.
func (orch *Orchestrator) FetchReports(ctx context.Context, stockCode string, years int) (*data.RunSummary, error) {
	return orch.run(ctx, JobFetchReports, func(ctx context.Context, queue *countingQueue, softEnd time.Time) error {
		company, err := orch.Store.CompanyByCode(ctx, stockCode)
		if err != nil {
			return err
		}

		orch.fetchCompanyReports(ctx, queue, company, years*4, softEnd)
		return nil
	})
}

// FetchAllReports fetches the most recent statement year for every
// company on the roster, up to maxCompanies. The cap exists because a
// full roster sweep against the filing site takes hours; scheduled
// runs chip away at it.
func (orch *Orchestrator) FetchAllReports(ctx context.Context, maxCompanies int) (*data.RunSummary, error) {
	return orch.run(ctx, JobFetchAllReports, func(ctx context.Context, queue *countingQueue, softEnd time.Time) error {
		companies, err := orch.Store.Companies(ctx)
		if err != nil {
			return err
		}
		if maxCompanies > 0 && len(companies) > maxCompanies {
			companies = companies[:maxCompanies]
		}

		orch.forEachCompany(ctx, companies, softEnd, func(ctx context.Context, company *data.Company) {
			orch.fetchCompanyReports(ctx, queue, company, 4, softEnd)
		})
		return nil
	})
}

func (orch *Orchestrator) fetchCompanyReports(ctx context.Context, queue *countingQueue,
	company *data.Company, periods int, softEnd time.Time) {
	gotAny := false
	for _, period := range recentPeriods(time.Now(), periods) {
		if time.Now().After(softEnd) {
			break
		}

		var report *data.FinancialReport
		fetchErr := orch.retry(ctx, func() error {
			r, err := orch.MOPS.Report(ctx, company.StockCode, period.year, period.season)
			if errors.Is(err, provider.ErrNoData) {
				return nil
			}
			if err == nil {
				report = r
			}
			return err
		})
		if fetchErr != nil {
			zerolog.Ctx(ctx).Error().Err(fetchErr).Str("StockCode", company.StockCode).
				Int("Year", period.year).Int("Season", period.season).
				Msg("statement fetch failed")
			queue.failed()
			continue
		}
		if report == nil {
			continue
		}

		queue.send(&data.Observation{
			FinancialReport: report,
			ObservationDate: time.Now(),
			JobName:         JobFetchReports,
		})
		gotAny = true
	}

	if gotAny {
		queue.companyDone()
	}
}

type fiscalPeriod struct {
	year   int
	season int
}

// recentPeriods lists the most recent count completed quarters, newest
// first. The quarter containing now is never complete.
func recentPeriods(now time.Time, count int) []fiscalPeriod {
	year := now.Year()
	season := (int(now.Month()) - 1) / 3
	if season == 0 {
		year--
		season = 4
	}

	periods := make([]fiscalPeriod, 0, count)
	for i := 0; i < count; i++ {
		periods = append(periods, fiscalPeriod{year: year, season: season})
		season--
		if season == 0 {
			year--
			season = 4
		}
	}
	return periods
}

// ComputeIndicators recomputes indicator snapshots for every company
// with stored statements. No network traffic; companies without
// statements are skipped.
func (orch *Orchestrator) ComputeIndicators(ctx context.Context) (*data.RunSummary, error) {
	return orch.run(ctx, JobComputeIndicators, func(ctx context.Context, queue *countingQueue, softEnd time.Time) error {
		companies, err := orch.Store.Companies(ctx)
		if err != nil {
			return err
		}

		orch.forEachCompany(ctx, companies, softEnd, func(ctx context.Context, company *data.Company) {
			reports, err := orch.Store.RecentReports(ctx, company.StockCode, indicator.SnapshotPeriods)
			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Str("StockCode", company.StockCode).
					Msg("cannot load statement history")
				queue.failed()
				return
			}
			if len(reports) == 0 {
				return
			}

			latestClose, err := orch.Store.LatestClose(ctx, company.StockCode)
			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Str("StockCode", company.StockCode).
					Msg("cannot load latest close")
				queue.failed()
				return
			}

			for _, snapshot := range indicator.Snapshots(reports, latestClose) {
				queue.send(&data.Observation{
					Indicator:       snapshot,
					ObservationDate: time.Now(),
					JobName:         JobComputeIndicators,
				})
			}
			queue.companyDone()
		})
		return nil
	})
}

// ComputeTrends refits the trend channel for every company with enough
// priced history. Companies with short histories are skipped.
func (orch *Orchestrator) ComputeTrends(ctx context.Context) (*data.RunSummary, error) {
	return orch.run(ctx, JobComputeTrends, func(ctx context.Context, queue *countingQueue, softEnd time.Time) error {
		companies, err := orch.Store.Companies(ctx)
		if err != nil {
			return err
		}

		calculationDate := time.Now().Truncate(24 * time.Hour)
		orch.forEachCompany(ctx, companies, softEnd, func(ctx context.Context, company *data.Company) {
			window, err := orch.Store.PriceWindow(ctx, company.StockCode, trend.MaxWindow)
			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Str("StockCode", company.StockCode).
					Msg("cannot load price window")
				queue.failed()
				return
			}

			closes := make([]float64, 0, len(window))
			for _, point := range window {
				closes = append(closes, point.Close)
			}

			result := trend.Analyze(company.StockCode, closes, calculationDate)
			if result == nil {
				return
			}

			queue.send(&data.Observation{
				Trend:           result,
				ObservationDate: calculationDate,
				JobName:         JobComputeTrends,
			})
			queue.companyDone()
		})
		return nil
	})
}
