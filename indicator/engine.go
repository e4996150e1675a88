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
package indicator

import "github.com/chiachunli08/stock-analysis/data"

// SnapshotPeriods bounds how far back snapshots are recomputed per run.
const SnapshotPeriods = 8

// Snapshots derives one indicator row per statement period, newest
// first. reports must already be ordered newest first. The quality
// score compares the two newest periods and is stamped onto every
// snapshot of the run; earlier periods are recomputed rows, not
// historical point-in-time scores. latestClose may be nil when the
// company has no priced trading day yet.
func Snapshots(reports []*data.FinancialReport, latestClose *float64) []*data.Indicator {
	if len(reports) == 0 {
		return nil
	}

	fscore := 0
	if len(reports) >= 2 {
		fscore = FScore(reports[0], reports[1])
	}

	if len(reports) > SnapshotPeriods {
		reports = reports[:SnapshotPeriods]
	}

	snapshots := make([]*data.Indicator, 0, len(reports))
	for _, report := range reports {
		snapshot := &data.Indicator{
			StockCode:  report.StockCode,
			Year:       report.Year,
			Season:     report.Season,
			ReportDate: report.ReportDate,

			ROE:                            ROE(report),
			NetMargin:                      NetMargin(report),
			GrossMargin:                    GrossMargin(report),
			OperatingMargin:                OperatingMargin(report),
			AssetTurnover:                  AssetTurnover(report),
			EquityMultiplier:               EquityMultiplier(report),
			InventoryTurnoverDays:          InventoryTurnoverDays(report),
			AccountsReceivableTurnoverDays: AccountsReceivableTurnoverDays(report),
			CurrentRatio:                   CurrentRatio(report),
			QuickRatio:                     QuickRatio(report),
			DebtRatio:                      DebtRatio(report),
			CashRatio:                      CashRatio(report),
			GoodwillRatio:                  GoodwillRatio(report),
			PETTM:                          PERatio(latestClose, report),

			FScore: fscore,
		}

		snapshot.CBSScore = CBSScore(snapshot)
		snapshot.Signal = Signal(snapshot.CBSScore, snapshot.PETTM)

		snapshots = append(snapshots, snapshot)
	}

	return snapshots
}
