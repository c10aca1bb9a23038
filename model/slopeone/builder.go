// Copyright 2026 gorse Project Authors
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

package slopeone

import (
	"context"
	"time"

	"github.com/gorse-io/slopeone/base/log"
	"github.com/gorse-io/slopeone/common/parallel"
	"github.com/gorse-io/slopeone/dataset"
	"github.com/gorse-io/slopeone/model"
	"github.com/gorse-io/slopeone/model/baseline"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Builder trains Slope One models.
type Builder struct {
	domain   *model.Domain
	params   model.Params
	damping  float64
	baseline baseline.Predictor
	jobs     int
}

// NewBuilder creates a builder for the rating domain. Params:
//
//	Damping - added to the co-rating count of each pair. Default is 0.
func NewBuilder(domain *model.Domain, params model.Params) *Builder {
	return &Builder{
		domain:  domain,
		params:  params.Copy(),
		damping: params.GetFloat64(model.Damping, 0),
		jobs:    1,
	}
}

// SetBaseline sets the fallback predictor of built models.
func (b *Builder) SetBaseline(p baseline.Predictor) *Builder {
	b.baseline = p
	return b
}

// SetJobs sets the number of goroutines accumulating deviations.
func (b *Builder) SetJobs(jobs int) *Builder {
	b.jobs = max(jobs, 1)
	return b
}

type accumulator struct {
	sum   float64
	count int
}

// Build trains a model in one pass over the ratings. Its complexity is
// O(Σ k_u²) where k_u is the number of ratings of user u.
func (b *Builder) Build(ctx context.Context, ratings *dataset.Ratings) (*Model, error) {
	if b.domain == nil {
		return nil, errors.NotValidf("nil domain")
	}
	if b.damping < 0 {
		return nil, errors.NotValidf("negative damping %v", b.damping)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("fit slope one",
		zap.Int("n_users", ratings.UserCount()),
		zap.Int("n_items", ratings.ItemCount()),
		zap.Int("n_ratings", ratings.Count()),
		zap.Any("params", b.params),
		zap.Int("jobs", b.jobs))
	start := time.Now()

	// accumulate differences of each chunk of users into a local table
	chunks := parallel.Split(ratings.Users(), b.jobs)
	tables := make([]map[pair]accumulator, len(chunks))
	err := parallel.Parallel(ctx, len(chunks), b.jobs, func(_, jobId int) error {
		table := make(map[pair]accumulator)
		for _, userId := range chunks[jobId] {
			if err := ctx.Err(); err != nil {
				return errors.Trace(err)
			}
			vec, _ := ratings.UserRatings(userId)
			keys, values := vec.Keys(), vec.Values()
			for i := range keys {
				for j := i + 1; j < len(keys); j++ {
					key := pair{a: keys[i], b: keys[j]}
					acc := table[key]
					acc.sum += values[i] - values[j]
					acc.count++
					table[key] = acc
				}
			}
		}
		tables[jobId] = table
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	// merge tables in the order of chunks
	merged := make(map[pair]accumulator)
	for _, table := range tables {
		for key, acc := range table {
			total := merged[key]
			total.sum += acc.sum
			total.count += acc.count
			merged[key] = total
		}
	}
	m := &Model{
		domain:   b.domain,
		baseline: b.baseline,
		pairs:    make(map[pair]stat, len(merged)),
		items:    ratings.ItemCount(),
	}
	for key, acc := range merged {
		m.pairs[key] = stat{
			count:     acc.count,
			deviation: acc.sum / (float64(acc.count) + b.damping),
		}
	}

	ModelItems.Set(float64(m.ItemCount()))
	ModelPairs.Set(float64(m.PairCount()))
	BuildSeconds.Observe(time.Since(start).Seconds())
	log.Logger().Info("fit slope one complete",
		zap.Int("n_pairs", m.PairCount()),
		zap.Duration("used_time", time.Since(start)))
	return m, nil
}
