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
package trend_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chiachunli08/stock-analysis/trend"
)

var calcDate = time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)

// linear builds n closes on the line start + slope*i.
func linear(n int, start, slope float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + slope*float64(i)
	}
	return closes
}

var _ = Describe("trend channel", func() {
	Context("with a noiseless rising series", func() {
		It("recovers the line with a perfect fit", func() {
			result := trend.Analyze("2330", linear(300, 100, 0.5), calcDate)

			Expect(result).NotTo(BeNil())
			Expect(result.PeriodDays).To(Equal(300))
			Expect(result.TrendLine).To(BeNumerically("~", 249.5, 1e-9))
			Expect(result.RSquared).To(BeNumerically("~", 1.0, 1e-9))
			Expect(result.CurrentPrice).To(Equal(249.5))
			Expect(result.Position).To(Equal(trend.PositionTrend))
		})
	})

	Context("with a spike on the final day", func() {
		It("lands in the outer upper band", func() {
			closes := linear(300, 100, 0.5)
			for i := range closes {
				if i%2 == 0 {
					closes[i] += 1
				} else {
					closes[i] -= 1
				}
			}
			closes[len(closes)-1] += 50

			result := trend.Analyze("2330", closes, calcDate)

			Expect(result).NotTo(BeNil())
			Expect(result.Position).To(Equal(trend.PositionPlus2))
			Expect(result.RSquared).To(BeNumerically(">", 0.9))
		})
	})

	Context("with too short a history", func() {
		It("skips the company", func() {
			Expect(trend.Analyze("8888", linear(trend.MinWindow-1, 50, 0.1), calcDate)).To(BeNil())
		})
	})

	Context("with more closes than the window", func() {
		It("fits only the newest window", func() {
			closes := make([]float64, 0, trend.MaxWindow+222)
			for i := 0; i < 222; i++ {
				closes = append(closes, 1000)
			}
			closes = append(closes, linear(trend.MaxWindow, 100, 0.5)...)

			result := trend.Analyze("2330", closes, calcDate)

			Expect(result.PeriodDays).To(Equal(trend.MaxWindow))
			Expect(result.RSquared).To(BeNumerically("~", 1.0, 1e-9))
			Expect(result.Position).To(Equal(trend.PositionTrend))
		})
	})

	Context("band boundaries", func() {
		It("checks upper before lower and outer before inner", func() {
			Expect(trend.Classify(120, 100, 10)).To(Equal(trend.PositionPlus2))
			Expect(trend.Classify(110, 100, 10)).To(Equal(trend.PositionPlus1))
			Expect(trend.Classify(80, 100, 10)).To(Equal(trend.PositionMinus2))
			Expect(trend.Classify(90, 100, 10)).To(Equal(trend.PositionMinus1))
			Expect(trend.Classify(105, 100, 10)).To(Equal(trend.PositionTrend))
			Expect(trend.Classify(95, 100, 10)).To(Equal(trend.PositionTrend))
		})

		It("treats a zero-spread channel as the trend line", func() {
			Expect(trend.Classify(250, 100, 0)).To(Equal(trend.PositionTrend))
		})
	})
})
