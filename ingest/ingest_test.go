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
package ingest_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chiachunli08/stock-analysis/ingest"
)

var _ = Describe("retry wrapper", func() {
	It("returns on the first success without delay", func() {
		calls := 0
		err := ingest.Retry(context.Background(), 3, time.Hour, func() error {
			calls++
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(1))
	})

	It("retries transient failures until one succeeds", func() {
		calls := 0
		err := ingest.Retry(context.Background(), 5, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(3))
	})

	It("gives up after the attempt budget with the last error", func() {
		boom := errors.New("still broken")
		calls := 0
		err := ingest.Retry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			return boom
		})
		Expect(err).To(MatchError(boom))
		Expect(calls).To(Equal(3))
	})

	It("stops waiting when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := ingest.Retry(ctx, 3, time.Hour, func() error {
			return errors.New("transient")
		})
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("fiscal periods", func() {
	It("walks back from the last completed quarter", func() {
		// mid May: Q1 is the newest completed quarter
		periods := ingest.RecentPeriods(time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), 4)
		Expect(periods).To(HaveLen(4))

		year, season := periods[0].YearSeason()
		Expect(year).To(Equal(2024))
		Expect(season).To(Equal(1))

		year, season = periods[1].YearSeason()
		Expect(year).To(Equal(2023))
		Expect(season).To(Equal(4))

		year, season = periods[3].YearSeason()
		Expect(year).To(Equal(2023))
		Expect(season).To(Equal(2))
	})

	It("reaches into the prior year during the first quarter", func() {
		periods := ingest.RecentPeriods(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 1)

		year, season := periods[0].YearSeason()
		Expect(year).To(Equal(2023))
		Expect(season).To(Equal(4))
	})
})
