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
package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chiachunli08/stock-analysis/db"
	"github.com/chiachunli08/stock-analysis/healthcheck"
	"github.com/chiachunli08/stock-analysis/store"
)

type configFile struct {
	DB struct {
		URL string `toml:"url"`
	} `toml:"db"`
	Schedule map[string]string `toml:"schedule"`
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema and write the config file",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		dbURL := viper.GetString("db.url")
		if dbURL == "" {
			log.Fatal().Msg("no database connection string; pass --dbUrl")
		}

		if _, err := pgx.ParseConfig(dbURL); err != nil {
			log.Fatal().Err(err).Msg("database connection string is invalid")
		}

		log.Info().Msg("creating database tables")

		// run migration
		migrateURL := strings.Replace(dbURL, "postgres://", "pgx5://", -1)
		if err := db.Migrate(migrateURL); err != nil {
			log.Fatal().Err(err).Msg("error running database migration")
		}

		log.Info().Msg("database tables created")

		// verify the store is reachable with the migrated schema
		myStore, err := store.New(ctx, dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		myStore.Close()

		// save database settings to config file
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		config := configFile{
			// weekday evening defaults, Taipei time; adjust in the file
			Schedule: map[string]string{
				"fetch-daily-prices": "30 14 * * 1-5",
				"compute-indicators": "0 18 * * 1-5",
				"compute-trends":     "30 18 * * 1-5",
				"refresh-roster":     "0 8 * * 1",
			},
		}
		config.DB.URL = dbURL

		configFN := filepath.Join(home, ".stockd.toml")
		log.Info().Str("ConfigFile", configFN).Msg("Saving database connection info to config file")
		configData, err := toml.Marshal(config)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		if err := os.WriteFile(configFN, configData, 0644); err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		// provision one healthchecks.io check per scheduled job so the
		// daemon's pings have somewhere to land
		if viper.GetString("healthchecks.apikey") != "" {
			for jobName, schedule := range config.Schedule {
				checkID, err := healthcheck.Create(jobName, jobName, []string{"stockd"}, schedule)
				if err != nil {
					log.Error().Err(err).Str("JobName", jobName).Msg("could not create healthcheck")
					continue
				}
				log.Info().Str("JobName", jobName).Str("CheckID", checkID).Msg("created healthcheck")
			}
		}

		log.Info().Msg("Your stock database has been initialized")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
