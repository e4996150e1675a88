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
package indicator_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chiachunli08/stock-analysis/data"
	"github.com/chiachunli08/stock-analysis/indicator"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

// Two fabricated statement periods where the newer period improves on
// every quality condition. Amounts are in thousands.
func sampleReports() (*data.FinancialReport, *data.FinancialReport) {
	current := &data.FinancialReport{
		StockCode: "2330", Year: 2024, Season: 1,
		TotalAssets:        i64(10_000_000),
		TotalLiabilities:   i64(2_500_000),
		StockholdersEquity: i64(7_500_000),
		CurrentAssets:      i64(4_000_000),
		CurrentLiabilities: i64(2_000_000),
		Inventory:          i64(500_000),
		CashAndEquivalents: i64(600_000),
		ShareCapital:       i64(1_000_000),
		Revenue:            i64(5_000_000),
		GrossProfit:        i64(2_500_000),
		OperatingProfit:    i64(2_000_000),
		NetIncome:          i64(1_500_000),
		EPS:                f64(12.0),
		OperatingCashFlow:  i64(1_800_000),
	}
	prior := &data.FinancialReport{
		StockCode: "2330", Year: 2023, Season: 4,
		TotalAssets:        i64(9_000_000),
		TotalLiabilities:   i64(2_700_000),
		StockholdersEquity: i64(6_300_000),
		CurrentAssets:      i64(3_000_000),
		CurrentLiabilities: i64(2_000_000),
		Inventory:          i64(600_000),
		ShareCapital:       i64(1_000_000),
		Revenue:            i64(4_000_000),
		GrossProfit:        i64(1_800_000),
		NetIncome:          i64(900_000),
		OperatingCashFlow:  i64(800_000),
	}
	return current, prior
}

var _ = Describe("fundamental ratios", func() {
	It("computes the profitability and leverage ratios exactly", func() {
		current, _ := sampleReports()
		Expect(*indicator.ROE(current)).To(Equal(20.0))
		Expect(*indicator.NetMargin(current)).To(Equal(30.0))
		Expect(*indicator.GrossMargin(current)).To(Equal(50.0))
		Expect(*indicator.OperatingMargin(current)).To(Equal(40.0))
		Expect(*indicator.AssetTurnover(current)).To(Equal(0.5))
		Expect(*indicator.CurrentRatio(current)).To(Equal(2.0))
		Expect(*indicator.QuickRatio(current)).To(Equal(1.75))
		Expect(*indicator.DebtRatio(current)).To(Equal(25.0))
		Expect(*indicator.CashRatio(current)).To(Equal(30.0))
	})

	It("truncates turnover day counts to integers", func() {
		report := &data.FinancialReport{
			Inventory:       i64(500_000),
			CostOfGoodsSold: i64(2_500_000),
		}
		// 0.2 * 365 = 73 exactly
		Expect(*indicator.InventoryTurnoverDays(report)).To(Equal(int64(73)))

		report = &data.FinancialReport{
			AccountsReceivable: i64(100),
			Revenue:            i64(3_000),
		}
		// 12.1666... truncates, never rounds
		Expect(*indicator.AccountsReceivableTurnoverDays(report)).To(Equal(int64(12)))
	})

	Context("with absent or zero denominators", func() {
		It("yields absent, never zero or a fault", func() {
			report := &data.FinancialReport{
				NetIncome:          i64(1_000),
				StockholdersEquity: i64(0),
			}
			Expect(indicator.ROE(report)).To(BeNil())
			Expect(indicator.NetMargin(report)).To(BeNil())
			Expect(indicator.CurrentRatio(&data.FinancialReport{})).To(BeNil())
			Expect(indicator.DebtRatio(&data.FinancialReport{TotalLiabilities: i64(5)})).To(BeNil())
		})
	})

	Context("with zero numerators", func() {
		It("yields absent, matching the zero-denominator rule", func() {
			Expect(indicator.DebtRatio(&data.FinancialReport{
				TotalLiabilities: i64(0),
				TotalAssets:      i64(1_000_000),
			})).To(BeNil())
			Expect(indicator.InventoryTurnoverDays(&data.FinancialReport{
				Inventory:       i64(0),
				CostOfGoodsSold: i64(500_000),
			})).To(BeNil())
			Expect(indicator.QuickRatio(&data.FinancialReport{
				CurrentAssets:      i64(0),
				CurrentLiabilities: i64(100),
			})).To(BeNil())
			Expect(indicator.ROE(&data.FinancialReport{
				NetIncome:          i64(0),
				StockholdersEquity: i64(100),
			})).To(BeNil())
		})

		It("keeps negative operands valid", func() {
			r := indicator.ROE(&data.FinancialReport{
				NetIncome:          i64(-500),
				StockholdersEquity: i64(1_000),
			})
			Expect(r).NotTo(BeNil())
			Expect(*r).To(Equal(-50.0))
		})

		It("never rewards a debt-free balance sheet through the tier table", func() {
			// zero liabilities leaves the debt ratio absent; an absent
			// ratio earns no points, not the ≤30 tier's 15
			report := &data.FinancialReport{
				TotalLiabilities: i64(0),
				TotalAssets:      i64(1_000_000),
			}
			Expect(indicator.CBSScore(&data.Indicator{
				DebtRatio: indicator.DebtRatio(report),
			})).To(Equal(0))
		})
	})

	Context("goodwill ratio", func() {
		It("reports zero when goodwill is absent", func() {
			r := indicator.GoodwillRatio(&data.FinancialReport{TotalAssets: i64(1_000)})
			Expect(r).NotTo(BeNil())
			Expect(*r).To(Equal(0.0))
		})

		It("computes the ratio when goodwill is present", func() {
			r := indicator.GoodwillRatio(&data.FinancialReport{
				Goodwill:    i64(200_000),
				TotalAssets: i64(10_000_000),
			})
			Expect(*r).To(Equal(2.0))
		})
	})

	Context("price to earnings", func() {
		It("is absent without a close or a positive EPS", func() {
			Expect(indicator.PERatio(nil, &data.FinancialReport{EPS: f64(5)})).To(BeNil())
			Expect(indicator.PERatio(f64(100), &data.FinancialReport{})).To(BeNil())
			Expect(indicator.PERatio(f64(100), &data.FinancialReport{EPS: f64(-1.5)})).To(BeNil())
			Expect(indicator.PERatio(f64(100), &data.FinancialReport{EPS: f64(0)})).To(BeNil())
		})

		It("divides latest close by earnings per share", func() {
			pe := indicator.PERatio(f64(120), &data.FinancialReport{EPS: f64(12)})
			Expect(*pe).To(Equal(10.0))
		})
	})
})

var _ = Describe("quality score", func() {
	It("clamps nine satisfied conditions to eight points", func() {
		current, prior := sampleReports()
		Expect(indicator.FScore(current, prior)).To(Equal(8))
	})

	It("is zero without a prior period", func() {
		current, _ := sampleReports()
		Expect(indicator.FScore(current, nil)).To(Equal(0))
	})

	It("awards no point when a condition's operands are absent", func() {
		Expect(indicator.FScore(
			&data.FinancialReport{ShareCapital: i64(100)},
			&data.FinancialReport{ShareCapital: i64(100)},
		)).To(Equal(1))
	})

	It("treats two filings without share capital as unchanged", func() {
		Expect(indicator.FScore(
			&data.FinancialReport{},
			&data.FinancialReport{},
		)).To(Equal(1))
	})

	It("withholds the dilution point when share capital grows", func() {
		Expect(indicator.FScore(
			&data.FinancialReport{ShareCapital: i64(110)},
			&data.FinancialReport{ShareCapital: i64(100)},
		)).To(Equal(0))
	})
})

var _ = Describe("composite score", func() {
	It("sums the tier table for the fabricated company", func() {
		// ROE 20 → 20, gross margin 50 → 15, current ratio 2 → 10,
		// quick ratio 1.75 → 10, debt ratio 25 → 15, cash ratio 30 → 10,
		// quality 8 × 2 → 16; total 96
		current, prior := sampleReports()
		snapshots := indicator.Snapshots([]*data.FinancialReport{current, prior}, f64(120))
		Expect(snapshots[0].CBSScore).To(Equal(96))
	})

	It("awards nothing for absent ratios", func() {
		Expect(indicator.CBSScore(&data.Indicator{})).To(Equal(0))
	})

	It("walks each tier boundary inclusively", func() {
		Expect(indicator.CBSScore(&data.Indicator{ROE: f64(15)})).To(Equal(15))
		Expect(indicator.CBSScore(&data.Indicator{ROE: f64(14.99)})).To(Equal(10))
		Expect(indicator.CBSScore(&data.Indicator{ROE: f64(6.99)})).To(Equal(0))
		Expect(indicator.CBSScore(&data.Indicator{GrossMargin: f64(30)})).To(Equal(10))
		Expect(indicator.CBSScore(&data.Indicator{CurrentRatio: f64(1.5)})).To(Equal(7))
		Expect(indicator.CBSScore(&data.Indicator{QuickRatio: f64(0.75)})).To(Equal(5))
		Expect(indicator.CBSScore(&data.Indicator{DebtRatio: f64(30)})).To(Equal(15))
		Expect(indicator.CBSScore(&data.Indicator{DebtRatio: f64(30.01)})).To(Equal(10))
		Expect(indicator.CBSScore(&data.Indicator{DebtRatio: f64(70.01)})).To(Equal(0))
		Expect(indicator.CBSScore(&data.Indicator{CashRatio: f64(10)})).To(Equal(5))
	})
})

var _ = Describe("valuation signal", func() {
	It("marks weak composites as watch regardless of valuation", func() {
		Expect(indicator.Signal(39, f64(5))).To(Equal(indicator.SignalWatch))
	})

	It("classifies the price-to-earnings bands at their boundaries", func() {
		Expect(indicator.Signal(40, f64(9.99))).To(Equal(indicator.SignalUndervalued))
		Expect(indicator.Signal(40, f64(10.00))).To(Equal(indicator.SignalLowPriced))
		Expect(indicator.Signal(40, f64(24.99))).To(Equal(indicator.SignalModerate))
		Expect(indicator.Signal(40, f64(25.00))).To(Equal(indicator.SignalOverheated))
	})

	It("falls back to moderate without a computable multiple", func() {
		Expect(indicator.Signal(40, nil)).To(Equal(indicator.SignalModerate))
	})
})

var _ = Describe("snapshot engine", func() {
	It("derives one snapshot per period with the run's quality score", func() {
		current, prior := sampleReports()
		snapshots := indicator.Snapshots([]*data.FinancialReport{current, prior}, f64(120))

		Expect(snapshots).To(HaveLen(2))
		Expect(snapshots[0].Year).To(Equal(2024))
		Expect(snapshots[1].Year).To(Equal(2023))
		Expect(snapshots[0].FScore).To(Equal(8))
		Expect(snapshots[1].FScore).To(Equal(8))
		Expect(*snapshots[0].ROE).To(Equal(20.0))
		Expect(*snapshots[0].PETTM).To(Equal(10.0))
		Expect(snapshots[0].Signal).To(Equal(indicator.SignalLowPriced))
	})

	It("scores a single period company without a prior comparison", func() {
		current, _ := sampleReports()
		snapshots := indicator.Snapshots([]*data.FinancialReport{current}, nil)

		Expect(snapshots).To(HaveLen(1))
		Expect(snapshots[0].FScore).To(Equal(0))
		Expect(snapshots[0].PETTM).To(BeNil())
	})

	It("bounds the recomputed history", func() {
		reports := make([]*data.FinancialReport, 0, 12)
		for i := 0; i < 12; i++ {
			current, _ := sampleReports()
			current.Year = 2024 - i/4
			current.Season = 4 - i%4
			reports = append(reports, current)
		}

		snapshots := indicator.Snapshots(reports, nil)
		Expect(snapshots).To(HaveLen(indicator.SnapshotPeriods))
	})

	It("returns nothing for a company without statements", func() {
		Expect(indicator.Snapshots(nil, f64(100))).To(BeEmpty())
	})
})
