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
package provider_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/chiachunli08/stock-analysis/data"
	"github.com/chiachunli08/stock-analysis/parse"
	"github.com/chiachunli08/stock-analysis/provider"
)

var _ = Describe("daily price rows", func() {
	Context("with a complete exchange row", func() {
		It("normalizes every column", func() {
			price, err := provider.ParseDailyRow("2330", []string{
				"113/05/17", "25,084,567", "21,261,434,583", "845.00",
				"850.00", "843.00", "848.00", "+3.00", "+0.36%",
			}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(price.StockCode).To(Equal("2330"))
			Expect(price.Date).To(Equal(time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)))
			Expect(*price.Volume).To(Equal(int64(25084567)))
			Expect(*price.Turnover).To(Equal(int64(21261434583)))
			Expect(*price.Open).To(Equal(845.00))
			Expect(*price.High).To(Equal(850.00))
			Expect(*price.Low).To(Equal(843.00))
			Expect(*price.Close).To(Equal(848.00))
			Expect(*price.ChangeAmount).To(Equal(3.00))
			Expect(*price.ChangePercent).To(Equal(0.36))
		})
	})

	Context("with halted-trading placeholders", func() {
		It("leaves the priced columns absent instead of zero", func() {
			price, err := provider.ParseDailyRow("8888", []string{
				"113/05/17", "0", "0", "--", "--", "--", "--", "X", "-",
			}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(price.Open).To(BeNil())
			Expect(price.High).To(BeNil())
			Expect(price.Low).To(BeNil())
			Expect(price.Close).To(BeNil())
			Expect(price.ChangeAmount).To(BeNil())
			Expect(price.ChangePercent).To(BeNil())
			Expect(*price.Volume).To(Equal(int64(0)))
		})
	})

	Context("with an over-the-counter row", func() {
		It("scales volume from thousands to shares", func() {
			price, err := provider.ParseDailyRow("5483", []string{
				"113/05/17", "1,234", "98,765,000", "80.00",
				"81.50", "79.20", "81.00", "1.10", "1.38",
			}, 1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(*price.Volume).To(Equal(int64(1234000)))
			Expect(*price.Turnover).To(Equal(int64(98765000)))
		})
	})

	Context("with a truncated row", func() {
		It("reports no data", func() {
			_, err := provider.ParseDailyRow("2330", []string{"113/05/17", "100"}, 1)
			Expect(err).To(MatchError(provider.ErrNoData))
		})
	})

	Context("with an unparseable date cell", func() {
		It("reports no data", func() {
			_, err := provider.ParseDailyRow("2330", []string{
				"not a date", "1", "2", "3", "4", "5", "6", "7", "8",
			}, 1)
			Expect(err).To(MatchError(provider.ErrNoData))
		})
	})
})

var _ = Describe("rowStrings", func() {
	It("flattens a JSON array row into string cells", func() {
		row := gjson.Parse(`["113/05/17", 1234, "845.00"]`)
		Expect(provider.RowStrings(row)).To(Equal([]string{"113/05/17", "1234", "845.00"}))
	})
})

var _ = Describe("statement extraction", func() {
	const balanceHTML = `<html><body>
<table class="noBorder"><tr><td>民國113年第1季</td></tr></table>
<table class="hasBorder">
<tr><th>會計項目</th><th>金額</th></tr>
<tr><td>　流動資產合計</td><td>1,234,567</td></tr>
<tr><td>存貨</td><td>45,000</td></tr>
<tr><td>應收帳款淨額</td><td>98,700</td></tr>
<tr><td>資產總計</td><td>9,876,543</td></tr>
<tr><td>負債總計</td><td>3,210,000</td></tr>
<tr><td>歸屬於母公司業主之權益總額</td><td>6,000,000</td></tr>
<tr><td>某個未知項目</td><td>42</td></tr>
<tr><td>資產總計</td><td>9,876,544</td></tr>
<tr><td>單一儲存格</td></tr>
</table>
</body></html>`

	It("maps recognized labels through to canonical fields", func() {
		fields := provider.ExtractStatement(parse.ReportBalance, balanceHTML)
		Expect(fields).To(HaveKeyWithValue("current_assets", "1,234,567"))
		Expect(fields).To(HaveKeyWithValue("inventory", "45,000"))
		Expect(fields).To(HaveKeyWithValue("accounts_receivable", "98,700"))
		Expect(fields).To(HaveKeyWithValue("total_liabilities", "3,210,000"))
		Expect(fields).To(HaveKeyWithValue("stockholders_equity", "6,000,000"))
	})

	It("keeps the last row when a label repeats", func() {
		fields := provider.ExtractStatement(parse.ReportBalance, balanceHTML)
		Expect(fields).To(HaveKeyWithValue("total_assets", "9,876,544"))
	})

	It("ignores labels the mapper does not know", func() {
		fields := provider.ExtractStatement(parse.ReportBalance, balanceHTML)
		Expect(fields).To(HaveLen(6))
	})

	It("returns nothing for a document without the data table", func() {
		fields := provider.ExtractStatement(parse.ReportIncome, `<html><body><p>查無資料</p></body></html>`)
		Expect(fields).To(BeEmpty())
	})
})

var _ = Describe("statement merge", func() {
	It("routes earnings per share to the decimal field", func() {
		report := &data.FinancialReport{}
		provider.ApplyStatement(report, map[string]string{
			"eps":     "12.48",
			"revenue": "592,644,000",
		})
		Expect(report.EPS).NotTo(BeNil())
		Expect(*report.EPS).To(Equal(12.48))
		Expect(*report.Revenue).To(Equal(int64(592644000)))
	})

	It("truncates decimal tokens landing in amount fields", func() {
		report := &data.FinancialReport{}
		provider.ApplyStatement(report, map[string]string{
			"inventory": "45,000.75",
		})
		Expect(*report.Inventory).To(Equal(int64(45000)))
	})

	It("leaves placeholder tokens absent", func() {
		report := &data.FinancialReport{}
		provider.ApplyStatement(report, map[string]string{
			"goodwill": "--",
		})
		Expect(report.Goodwill).To(BeNil())
		Expect(report.Empty()).To(BeTrue())
	})
})
