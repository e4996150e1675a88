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
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chiachunli08/stock-analysis/store"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display record counts and recent job runs",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myStore, err := store.New(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer myStore.Close()

		counts, err := myStore.TableCounts(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not summarize record counts")
		}

		fmt.Println("Records:")
		for _, tbl := range []string{"companies", "stock_prices", "financial_reports", "indicators", "trend_analysis", "job_logs"} {
			fmt.Printf("  %-20s %d\n", tbl, counts[tbl])
		}

		jobRuns, err := myStore.LastJobRuns(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load job history")
		}

		if len(jobRuns) == 0 {
			return
		}

		fmt.Println("\nLast job runs:")
		for _, jobRun := range jobRuns {
			fmt.Printf("  %-20s %-8s %6d records  %s\n", jobRun.JobName, jobRun.Status,
				jobRun.RecordsProcessed, jobRun.CompletedAt.Format("2006-01-02 15:04:05"))
			if jobRun.ErrorMessage != "" {
				fmt.Printf("    error: %s\n", jobRun.ErrorMessage)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
