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

// Package scheduler runs the top-level jobs on cron schedules. The
// schedule table is explicit configuration handed in by the caller;
// the scheduler knows when jobs run, never what they do.
package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config maps job names to cron expressions. Jobs without an entry
// simply never run as part of the daemon.
type Config map[string]string

// ConfigFromViper reads the [schedule] table of the config file, e.g.
//
//	[schedule]
//	fetch-daily-prices = "30 14 * * 1-5"
//	compute-indicators = "0 18 * * 1-5"
func ConfigFromViper() Config {
	return viper.GetStringMapString("schedule")
}

type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Register attaches a job closure to its configured schedule. Jobs
// absent from the config are skipped; a malformed cron expression is
// a configuration error.
func (sched *Scheduler) Register(config Config, jobName string, job func()) error {
	expr, ok := config[jobName]
	if !ok {
		return nil
	}

	if _, err := sched.cron.AddFunc(expr, job); err != nil {
		return err
	}

	log.Info().Str("JobName", jobName).Str("Schedule", expr).Msg("scheduled job")
	return nil
}

// Start launches the cron loop in its own goroutine.
func (sched *Scheduler) Start() {
	sched.cron.Start()
}

// Stop halts scheduling; running jobs finish on their own.
func (sched *Scheduler) Stop() {
	sched.cron.Stop()
}
