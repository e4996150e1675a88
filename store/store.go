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

// Package store owns all durable state. Connections are acquired per
// unit of work and released deterministically; no open handle is
// shared across pipeline invocations.
package store

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/chiachunli08/stock-analysis/data"
)

type Store struct {
	DBUrl string

	Pool *pgxpool.Pool
}

// Connect to the database configured for the store
func (myStore *Store) Connect(ctx context.Context) error {
	if myStore.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(ctx, myStore.DBUrl)
	if err != nil {
		return err
	}
	myStore.Pool = pool

	return nil
}

// Close the database pool
func (myStore *Store) Close() {
	myStore.Pool.Close()
}

// New creates a store and verifies the database is reachable. An
// unreachable database is a fatal configuration error for every job,
// so callers should not retry this.
func New(ctx context.Context, dbURL string) (*Store, error) {
	myStore := &Store{DBUrl: dbURL}
	if err := myStore.Connect(ctx); err != nil {
		return nil, err
	}

	if err := myStore.Pool.Ping(ctx); err != nil {
		myStore.Close()
		return nil, err
	}

	return myStore, nil
}

// SaveObservations continuously reads from the input queue and upserts
// each record under its natural key. It is the single writer for a
// job run; readers never observe a partially merged record because
// every record is written in its own transaction.
//
// An unacquirable connection is a fatal configuration error: the run
// panics rather than silently leaving the queue without a consumer,
// which would block every producer past the job's hard deadline.
func (myStore *Store) SaveObservations(queue <-chan *data.Observation, wg *sync.WaitGroup) {
	ctx := context.Background()
	defer wg.Done()

	conn, err := myStore.Pool.Acquire(ctx)
	if err != nil {
		log.Panic().Err(err).Msg("cannot acquire database connection")
	}
	defer conn.Release()

	for elem := range queue {
		if elem.Company != nil {
			if err := elem.Company.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save company to database")
			}
		}

		if elem.Price != nil {
			if err := elem.Price.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save stock price to database")
			}
		}

		if elem.FinancialReport != nil {
			if err := elem.FinancialReport.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save financial report to database")
			}
		}

		if elem.Indicator != nil {
			if err := elem.Indicator.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save indicator to database")
			}
		}

		if elem.Trend != nil {
			if err := elem.Trend.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save trend analysis to database")
			}
		}
	}
}

// SaveJobLog writes one audit row for a finished job.
func (myStore *Store) SaveJobLog(ctx context.Context, jobLog *data.JobLog) error {
	conn, err := myStore.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return jobLog.SaveDB(ctx, conn)
}
