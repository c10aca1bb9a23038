// Copyright 2025 gorse Project Authors
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

package main

import (
	"context"
	"os"

	"github.com/gorse-io/slopeone/base/log"
	"github.com/gorse-io/slopeone/dataset"
	"github.com/gorse-io/slopeone/storage/data"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCommand = &cobra.Command{
	Use:   "import",
	Short: "Import ratings from a CSV file into the data store.",
	Run: func(cmd *cobra.Command, args []string) {
		csvFile, _ := cmd.Flags().GetString("csv")
		sep, _ := cmd.Flags().GetString("sep")
		header, _ := cmd.Flags().GetBool("header")
		conf := loadConfig(cmd)
		db, err := openDatabase(cmd.Context(), conf)
		if err != nil {
			log.Logger().Fatal("failed to open database", zap.Error(err))
		}
		defer db.Close()
		n, err := importEvents(cmd.Context(), db, csvFile, sep, header, conf.Model.BatchSize)
		if err != nil {
			log.Logger().Fatal("failed to import events", zap.String("csv", csvFile), zap.Error(err))
		}
		log.Logger().Info("import events complete", zap.String("csv", csvFile), zap.Int("n_events", n))
	},
}

func init() {
	importCommand.Flags().String("csv", "", "path of the CSV file (user, item, rating[, timestamp])")
	importCommand.Flags().String("sep", ",", "field separator")
	importCommand.Flags().Bool("header", false, "skip the first line")
	_ = importCommand.MarkFlagRequired("csv")
	rootCommand.AddCommand(importCommand)
}

func importEvents(ctx context.Context, db data.Database, csvFile, sep string, header bool, batchSize int) (int, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return 0, errors.Trace(err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return 0, errors.Trace(err)
	}

	// parse events
	pbReader := progressbar.NewReader(file, progressbar.DefaultBytes(info.Size(), "Reading events"))
	events, err := dataset.LoadEvents(&pbReader, sep, header)
	if err != nil {
		return 0, errors.Trace(err)
	}

	// insert events
	bar := progressbar.Default(int64(len(events)), "Inserting events")
	for _, batch := range lo.Chunk(events, batchSize) {
		if err = db.BatchInsertEvents(ctx, batch); err != nil {
			return 0, errors.Trace(err)
		}
		_ = bar.Add(len(batch))
	}
	_ = bar.Finish()
	return len(events), nil
}
