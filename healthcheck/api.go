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

// Package healthcheck integrates with healthchecks.io. Each scheduled
// job owns one check, slugged by its job name; the orchestrator pings
// it after every run so missed schedules and failing jobs both alarm.
package healthcheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	ErrStatus = errors.New("status code is invalid")
)

// endpoint bases, replaceable in tests
var (
	checksURL = "https://healthchecks.io/api/v3/checks/"
	pingURL   = "https://hc-ping.com"
)

type createReq struct {
	APIKey      string `json:"api_key"`
	Name        string `json:"name"`
	Description string `json:"desc,omitempty"`
	Grace       int    `json:"grace"`
	Schedule    string `json:"schedule"`
	Slug        string `json:"slug"`
	Tags        string `json:"tags"`
	Timezone    string `json:"tz"`
}

type createResp struct {
	PingURL string `json:"ping_url"`
}

// Create a new healthchecks.io check for a scheduled job and return
// the check id.
func Create(name string, slug string, tags []string, schedule string) (string, error) {
	command := createReq{
		APIKey:   viper.GetString("healthchecks.apikey"),
		Name:     name,
		Slug:     slug,
		Tags:     strings.Join(tags, " "),
		Grace:    3600,
		Schedule: schedule,
		Timezone: "Asia/Taipei",
	}

	result := createResp{}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(command).
		SetResult(&result).
		Post(checksURL)

	if err != nil {
		return "", err
	}

	if resp.StatusCode() > 201 {
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	checkID := strings.Split(result.PingURL, "/")
	healthCheckID := checkID[len(checkID)-1]

	return healthCheckID, nil
}

// Ping reports a job run to its slugged check. A failed run pings the
// /fail endpoint so the check alarms immediately instead of waiting
// for the grace period. Without a configured ping key this is a no-op;
// a ping failure is logged and never fails the job.
func Ping(slug string, success bool) {
	pingKey := viper.GetString("healthchecks.pingkey")
	if pingKey == "" {
		return
	}

	url := fmt.Sprintf("%s/%s/%s", pingURL, pingKey, slug)
	if !success {
		url += "/fail"
	}

	client := resty.New()
	resp, err := client.R().Post(url)
	if err != nil {
		log.Error().Err(err).Str("Slug", slug).Msg("cannot ping healthcheck")
		return
	}

	if resp.StatusCode() != 200 {
		log.Error().Int("StatusCode", resp.StatusCode()).Str("Slug", slug).
			Msg("healthcheck ping rejected")
	}
}
