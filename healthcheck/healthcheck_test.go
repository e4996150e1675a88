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
package healthcheck_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/chiachunli08/stock-analysis/healthcheck"
)

var _ = Describe("healthchecks.io api", func() {
	var server *httptest.Server

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
		viper.Set("healthchecks.apikey", "")
		viper.Set("healthchecks.pingkey", "")
		healthcheck.SetBaseURLs("https://healthchecks.io/api/v3/checks/", "https://hc-ping.com")
	})

	Context("when creating a check", func() {
		It("returns the check id parsed from the ping url", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				fmt.Fprint(w, `{"ping_url": "https://hc-ping.com/abc123"}`)
			}))
			healthcheck.SetBaseURLs(server.URL, "https://hc-ping.com")
			viper.Set("healthchecks.apikey", "test-api-key")

			checkID, err := healthcheck.Create("compute-trends", "compute-trends",
				[]string{"stockd"}, "30 18 * * 1-5")
			Expect(err).To(BeNil())
			Expect(checkID).To(Equal("abc123"))
		})

		It("rejects an error status", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			}))
			healthcheck.SetBaseURLs(server.URL, "https://hc-ping.com")
			viper.Set("healthchecks.apikey", "test-api-key")

			_, err := healthcheck.Create("compute-trends", "compute-trends",
				[]string{"stockd"}, "30 18 * * 1-5")
			Expect(err).To(MatchError(healthcheck.ErrStatus))
		})
	})

	Context("when pinging a check", func() {
		var paths []string

		BeforeEach(func() {
			paths = nil
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				paths = append(paths, r.URL.Path)
				w.WriteHeader(http.StatusOK)
			}))
			healthcheck.SetBaseURLs("https://healthchecks.io/api/v3/checks/", server.URL)
		})

		It("does nothing without a configured ping key", func() {
			healthcheck.Ping("compute-trends", true)
			Expect(paths).To(BeEmpty())
		})

		It("pings the slug for a successful run", func() {
			viper.Set("healthchecks.pingkey", "k")
			healthcheck.Ping("compute-trends", true)
			Expect(paths).To(Equal([]string{"/k/compute-trends"}))
		})

		It("pings the fail endpoint for a failed run", func() {
			viper.Set("healthchecks.pingkey", "k")
			healthcheck.Ping("compute-trends", false)
			Expect(paths).To(Equal([]string{"/k/compute-trends/fail"}))
		})
	})
})
