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
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chiachunli08/stock-analysis/data"
	"github.com/chiachunli08/stock-analysis/ingest"
	"github.com/chiachunli08/stock-analysis/scheduler"
	"github.com/chiachunli08/stock-analysis/store"
)

var (
	runStock        string
	runMonths       int
	runYears        int
	runMaxCompanies int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [job-name...]",
	Short: "Run ingestion and computation jobs",
	Long: `The run sub-command executes the named jobs and saves the records they
produce. If no arguments are provided then run executes as a daemon,
triggering each job on the cron schedule configured under [schedule] in
the config file. If job names are provided then each runs once,
sequentially, ignoring the schedule.

Available jobs:

	refresh-roster      fetch the listed and OTC company rosters
	fetch-daily-prices  fetch the latest trading day for every company
	backfill-prices     walk one company's price history back N months (requires --stock)
	fetch-reports       fetch one company's quarterly statements (requires --stock)
	fetch-all-reports   fetch the most recent statement year across the roster
	compute-indicators  recompute indicator snapshots from stored statements
	compute-trends      refit price trend channels from stored history`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myStore, err := store.New(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer myStore.Close()

		orch := ingest.New(myStore)

		if len(args) == 0 {
			runDaemon(ctx, orch)
			return
		}

		for _, jobName := range args {
			startTime := time.Now()
			summary, err := executeJob(ctx, orch, jobName)
			if err != nil {
				log.Error().Err(err).Str("JobName", jobName).Msg("job failed")
				continue
			}

			log.Info().Str("JobName", jobName).
				Str("RunTime", durafmt.Parse(time.Since(startTime)).String()).
				Int("NumObservations", summary.NumObservations).
				Str("Status", string(summary.Status)).
				Msg("job complete")
		}
	},
}

func executeJob(ctx context.Context, orch *ingest.Orchestrator, jobName string) (*data.RunSummary, error) {
	switch jobName {
	case ingest.JobRefreshRoster:
		return orch.RefreshRoster(ctx)
	case ingest.JobFetchDailyPrices:
		return orch.FetchDailyPrices(ctx)
	case ingest.JobBackfillPrices:
		if runStock == "" {
			log.Fatal().Str("JobName", jobName).Msg("--stock is required")
		}
		return orch.BackfillPrices(ctx, runStock, runMonths)
	case ingest.JobFetchReports:
		if runStock == "" {
			log.Fatal().Str("JobName", jobName).Msg("--stock is required")
		}
		return orch.FetchReports(ctx, runStock, runYears)
	case ingest.JobFetchAllReports:
		return orch.FetchAllReports(ctx, runMaxCompanies)
	case ingest.JobComputeIndicators:
		return orch.ComputeIndicators(ctx)
	case ingest.JobComputeTrends:
		return orch.ComputeTrends(ctx)
	default:
		log.Fatal().Str("JobName", jobName).Msg("unknown job")
		return nil, nil
	}
}

// runDaemon schedules the recurring jobs and blocks until interrupted.
// One-company jobs (backfill-prices, fetch-reports) are operator tools
// and are not schedulable.
func runDaemon(ctx context.Context, orch *ingest.Orchestrator) {
	config := scheduler.ConfigFromViper()
	sched := scheduler.New()

	scheduled := map[string]func(){
		ingest.JobRefreshRoster:     func() { _, _ = orch.RefreshRoster(ctx) },
		ingest.JobFetchDailyPrices:  func() { _, _ = orch.FetchDailyPrices(ctx) },
		ingest.JobFetchAllReports:   func() { _, _ = orch.FetchAllReports(ctx, runMaxCompanies) },
		ingest.JobComputeIndicators: func() { _, _ = orch.ComputeIndicators(ctx) },
		ingest.JobComputeTrends:     func() { _, _ = orch.ComputeTrends(ctx) },
	}

	for jobName, job := range scheduled {
		if err := sched.Register(config, jobName, job); err != nil {
			log.Fatal().Err(err).Str("JobName", jobName).Msg("invalid schedule configuration")
		}
	}

	sched.Start()
	defer sched.Stop()

	log.Info().Msg("running as daemon, press ctrl-c to exit")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Info().Msg("shutting down")
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runStock, "stock", "", "stock code for single-company jobs")
	runCmd.Flags().IntVar(&runMonths, "months", 12, "months of price history for backfill-prices")
	runCmd.Flags().IntVar(&runYears, "years", 1, "years of statements for fetch-reports")
	runCmd.Flags().IntVar(&runMaxCompanies, "max-companies", 50, "company cap for fetch-all-reports (0 for no cap)")
}
