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
package data

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// JobLog is a write-only audit row recording one top-level job run.
// Computation never reads these rows back.
type JobLog struct {
	ID               uuid.UUID `db:"id"`
	JobName          string    `db:"job_name"`
	Status           RunStatus `db:"status"`
	RecordsProcessed int       `db:"records_processed"`
	ErrorMessage     string    `db:"error_message"`
	StartedAt        time.Time `db:"started_at"`
	CompletedAt      time.Time `db:"completed_at"`
}

// NewJobLog starts an audit record for the named job.
func NewJobLog(jobName string) *JobLog {
	return &JobLog{
		ID:        uuid.New(),
		JobName:   jobName,
		Status:    RunFailed,
		StartedAt: time.Now(),
	}
}

// Finish stamps the completion time and outcome.
func (jobLog *JobLog) Finish(status RunStatus, records int, errMsg string) {
	jobLog.Status = status
	jobLog.RecordsProcessed = records
	jobLog.ErrorMessage = errMsg
	jobLog.CompletedAt = time.Now()
}

func (jobLog *JobLog) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := `INSERT INTO job_logs (
		"id",
		"job_name",
		"status",
		"records_processed",
		"error_message",
		"started_at",
		"completed_at"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	);`

	if _, err := tx.Exec(ctx, sql, jobLog.ID, jobLog.JobName, jobLog.Status,
		jobLog.RecordsProcessed, jobLog.ErrorMessage, jobLog.StartedAt,
		jobLog.CompletedAt); err != nil {
		log.Error().Err(err).Str("JobName", jobLog.JobName).Msg("error saving job log to database")
	}

	return tx.Commit(ctx)
}
