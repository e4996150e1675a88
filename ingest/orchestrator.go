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

// Package ingest coordinates the top-level jobs. Each job fans out
// per-company sub-jobs across a bounded worker pool; a sub-job runs
// its network fetches sequentially so the adapters' rate limiters
// stay meaningful. All records flow through a single store writer
// goroutine, and every job run leaves one audit row behind.
package ingest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chiachunli08/stock-analysis/data"
	"github.com/chiachunli08/stock-analysis/healthcheck"
	"github.com/chiachunli08/stock-analysis/provider"
	"github.com/chiachunli08/stock-analysis/store"
)

const (
	defaultWorkers       = 4
	defaultRetryAttempts = 3
	defaultRetryDelay    = 5 * time.Second
	defaultSoftDeadline  = 4 * time.Hour
	defaultHardDeadline  = 6 * time.Hour

	observationQueueDepth = 100
)

type Orchestrator struct {
	Store *store.Store

	TWSE *provider.TWSE
	TPEX *provider.TPEX
	MOPS *provider.MOPS

	// Workers bounds concurrent per-company sub-jobs. Concurrency is
	// across companies, never within one company's fetch sequence.
	Workers int

	RetryAttempts int
	RetryDelay    time.Duration

	// SoftDeadline stops new sub-jobs from starting; HardDeadline
	// cancels the run's context outright.
	SoftDeadline time.Duration
	HardDeadline time.Duration
}

func New(myStore *store.Store) *Orchestrator {
	return &Orchestrator{
		Store:         myStore,
		TWSE:          provider.NewTWSE(),
		TPEX:          provider.NewTPEX(),
		MOPS:          provider.NewMOPS(),
		Workers:       defaultWorkers,
		RetryAttempts: defaultRetryAttempts,
		RetryDelay:    defaultRetryDelay,
		SoftDeadline:  defaultSoftDeadline,
		HardDeadline:  defaultHardDeadline,
	}
}

// priceSource selects the exchange feed for a company's listing
// market. OTC listings trade on the Taipei Exchange; everything else
// is treated as exchange listed.
func (orch *Orchestrator) priceSource(market data.Market) provider.PriceSource {
	if market == data.MarketOTC {
		return orch.TPEX
	}
	return orch.TWSE
}

func (orch *Orchestrator) retry(ctx context.Context, fn func() error) error {
	return Retry(ctx, orch.RetryAttempts, orch.RetryDelay, fn)
}

// run wraps one top-level job: it stamps the run context with the hard
// deadline, starts the single store writer, invokes the job body, and
// records the outcome in the job log and the job's healthcheck.
//
// The body receives the run context, the counting queue wrapping the
// observation channel, and the soft deadline instant after which it
// must not start new sub-jobs.
func (orch *Orchestrator) run(ctx context.Context, jobName string,
	body func(ctx context.Context, queue *countingQueue, softEnd time.Time) error) (*data.RunSummary, error) {
	subLog := log.With().Str("JobName", jobName).Logger()
	ctx = subLog.WithContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, orch.HardDeadline)
	defer cancel()

	jobLog := data.NewJobLog(jobName)
	summary := &data.RunSummary{
		JobName:   jobName,
		StartTime: jobLog.StartedAt,
	}

	queue := make(chan *data.Observation, observationQueueDepth)
	counter := countingQueue{inner: queue}

	var writerWG sync.WaitGroup
	writerWG.Add(1)
	go orch.Store.SaveObservations(queue, &writerWG)

	err := body(ctx, &counter, jobLog.StartedAt.Add(orch.SoftDeadline))

	close(queue)
	writerWG.Wait()

	summary.EndTime = time.Now()
	summary.NumObservations = int(counter.sent.Load())
	summary.NumCompanies = int(counter.companies.Load())
	summary.NumFailures = int(counter.failures.Load())
	summary.Status = runStatus(err, summary)

	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	jobLog.Finish(summary.Status, summary.NumObservations, errMsg)
	if saveErr := orch.Store.SaveJobLog(context.Background(), jobLog); saveErr != nil {
		subLog.Error().Err(saveErr).Msg("cannot save job log")
	}

	healthcheck.Ping(jobName, summary.Status == data.RunSuccess)

	subLog.Info().Str("Status", string(summary.Status)).
		Int("NumObservations", summary.NumObservations).
		Int("NumCompanies", summary.NumCompanies).
		Int("NumFailures", summary.NumFailures).
		Msg("job finished")

	return summary, err
}

func runStatus(err error, summary *data.RunSummary) data.RunStatus {
	switch {
	case err != nil:
		return data.RunFailed
	case summary.NumFailures > 0 && summary.NumObservations > 0:
		return data.RunPartial
	case summary.NumFailures > 0:
		return data.RunFailed
	case summary.NumObservations == 0:
		return data.RunSkipped
	default:
		return data.RunSuccess
	}
}

// countingQueue tallies run statistics as sub-jobs report results. It
// is shared by all workers of a run.
type countingQueue struct {
	inner chan<- *data.Observation

	sent      atomic.Int64
	companies atomic.Int64
	failures  atomic.Int64
}

func (queue *countingQueue) send(obs *data.Observation) {
	queue.inner <- obs
	queue.sent.Add(1)
}

func (queue *countingQueue) companyDone() { queue.companies.Add(1) }
func (queue *countingQueue) failed()      { queue.failures.Add(1) }

// forEachCompany fans companies out across the worker pool, honoring
// the soft deadline and the run context. Sub-job panics are not
// recovered; a sub-job failure is reported through the queue's failure
// counter instead of an error so one company never blocks another.
func (orch *Orchestrator) forEachCompany(ctx context.Context, companies []*data.Company,
	softEnd time.Time, subJob func(ctx context.Context, company *data.Company)) {
	workers := orch.Workers
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, company := range companies {
		if time.Now().After(softEnd) {
			log.Warn().Time("SoftDeadline", softEnd).Msg("soft deadline passed, not starting further sub-jobs")
			break
		}

		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(myCompany *data.Company) {
			defer func() {
				<-sem
				wg.Done()
			}()
			subJob(ctx, myCompany)
		}(company)
	}

	wg.Wait()
}
