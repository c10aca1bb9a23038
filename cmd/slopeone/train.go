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

	"github.com/gorse-io/slopeone/base/log"
	"github.com/gorse-io/slopeone/config"
	"github.com/gorse-io/slopeone/model"
	"github.com/gorse-io/slopeone/model/baseline"
	"github.com/gorse-io/slopeone/model/slopeone"
	"github.com/gorse-io/slopeone/storage/blob"
	"github.com/gorse-io/slopeone/storage/data"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var trainCommand = &cobra.Command{
	Use:   "train",
	Short: "Train a slope one model from ratings in the data store.",
	Run: func(cmd *cobra.Command, args []string) {
		conf, db, store := openStores(cmd)
		defer db.Close()
		m, err := train(cmd.Context(), conf, db, store)
		if err != nil {
			log.Logger().Fatal("failed to train model", zap.Error(err))
		}
		log.Logger().Info("save model",
			zap.String("name", conf.Model.Name),
			zap.Int("n_items", m.ItemCount()),
			zap.Int("n_pairs", m.PairCount()))
	},
}

func init() {
	rootCommand.AddCommand(trainCommand)
}

func modelParams(conf *config.Config) model.Params {
	return model.Params{
		model.Damping:  conf.Model.Damping,
		model.Weighted: conf.Model.Weighted,
	}
}

func train(ctx context.Context, conf *config.Config, db data.Database, store blob.Store) (*slopeone.Model, error) {
	domain, err := model.NewDomain(conf.Model.MinRating, conf.Model.MaxRating)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ratings, err := data.LoadRatings(ctx, db, conf.Model.BatchSize, nil)
	if err != nil {
		return nil, errors.Trace(err)
	}

	// fit baseline
	var base baseline.Predictor
	if conf.Model.Baseline != "none" {
		base, err = baseline.New(conf.Model.Baseline, ratings, conf.Model.BaselineDamping)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}

	m, err := slopeone.NewBuilder(domain, modelParams(conf)).
		SetBaseline(base).
		SetJobs(conf.Model.FitJobs).
		Build(ctx, ratings)
	if err != nil {
		return nil, errors.Trace(err)
	}
	err = blob.Save(store, conf.Model.Name, func(w io.Writer) error {
		return slopeone.MarshalModel(w, m)
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return m, nil
}
