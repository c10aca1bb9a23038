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
	"io"
	"os"
	"strconv"

	"github.com/gorse-io/slopeone/base/log"
	"github.com/gorse-io/slopeone/config"
	"github.com/gorse-io/slopeone/model"
	"github.com/gorse-io/slopeone/model/slopeone"
	"github.com/gorse-io/slopeone/storage/blob"
	"github.com/gorse-io/slopeone/storage/data"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var predictCommand = &cobra.Command{
	Use:   "predict",
	Short: "Predict ratings of items for a user.",
	Run: func(cmd *cobra.Command, args []string) {
		userId, _ := cmd.Flags().GetInt64("user")
		items, _ := cmd.Flags().GetInt64Slice("items")
		conf, db, store := openStores(cmd)
		defer db.Close()
		if err := predict(cmd.Context(), conf, db, store, userId, items, os.Stdout); err != nil {
			log.Logger().Fatal("failed to predict", zap.Int64("user_id", userId), zap.Error(err))
		}
	},
}

func init() {
	predictCommand.Flags().Int64("user", 0, "user id")
	predictCommand.Flags().Int64Slice("items", nil, "item ids")
	_ = predictCommand.MarkFlagRequired("user")
	_ = predictCommand.MarkFlagRequired("items")
	rootCommand.AddCommand(predictCommand)
}

func loadModel(conf *config.Config, store blob.Store) (*slopeone.Model, error) {
	var m *slopeone.Model
	err := blob.Load(store, conf.Model.Name, func(r io.Reader) error {
		var err error
		m, err = slopeone.UnmarshalModel(r)
		return err
	})
	return m, errors.Trace(err)
}

func predict(ctx context.Context, conf *config.Config, db data.Database, store blob.Store, userId int64, items []int64, out io.Writer) error {
	m, err := loadModel(conf, store)
	if err != nil {
		return errors.Trace(err)
	}
	var predictor *slopeone.Predictor
	if modelParams(conf).GetBool(model.Weighted, false) {
		predictor = slopeone.NewWeightedPredictor(m)
	} else {
		predictor = slopeone.NewPredictor(m)
	}
	scores, err := predictor.ScoreUser(ctx, db, userId, items)
	if err != nil {
		return errors.Trace(err)
	}

	table := tablewriter.NewWriter(out)
	table.Header("Item", "Prediction")
	for _, itemId := range items {
		prediction := "-"
		if score, ok := scores.Lookup(itemId); ok {
			prediction = strconv.FormatFloat(score, 'f', 4, 64)
		}
		if err = table.Append([]string{strconv.FormatInt(itemId, 10), prediction}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}
