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
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/slopeone/common/sparse"
	"github.com/gorse-io/slopeone/event"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// HistorySource loads the events of a user.
type HistorySource interface {
	GetUserEvents(ctx context.Context, userId int64) ([]event.Event, error)
}

// Option configures a Predictor.
type Option func(p *Predictor)

// WithSummarizer sets how user histories are reduced to rating vectors. The
// default keeps the latest rating of each item.
func WithSummarizer(summarizer event.Summarizer) Option {
	return func(p *Predictor) {
		p.summarizer = summarizer
	}
}

// Predictor scores items for a user with a Slope One model.
type Predictor struct {
	model      *Model
	summarizer event.Summarizer
	weighted   bool
}

// NewPredictor creates a predictor that averages Deviation(i, r) + r over the
// rated items r sharing co-ratings with the target item i.
func NewPredictor(m *Model, opts ...Option) *Predictor {
	p := &Predictor{
		model:      m,
		summarizer: event.RatingVectorSummarizer{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewWeightedPredictor creates a predictor that weights each term by the
// co-rating count of its pair.
func NewWeightedPredictor(m *Model, opts ...Option) *Predictor {
	p := NewPredictor(m, opts...)
	p.weighted = true
	return p
}

// Model returns the underlying model.
func (p *Predictor) Model() *Model {
	return p.model
}

// Score predicts ratings of items for the owner of the history. Items the
// user already rated are never returned. Items without co-ratings are
// predicted by the baseline if the model has one, otherwise they are absent.
// Slope One predictions are clamped to the rating domain, baseline
// predictions are returned as is.
func (p *Predictor) Score(history *event.UserHistory, items []int64) (*sparse.Vector, error) {
	if history == nil {
		return nil, errors.NotValidf("nil history")
	}
	user, err := p.summarizer.Summarize(history)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if user == nil {
		user = sparse.Empty()
	}
	candidates := lo.Uniq(items)
	slices.Sort(candidates)

	result := sparse.NewMutable()
	var unpredictable []int64
	for _, itemId := range candidates {
		if user.ContainsKey(itemId) {
			continue
		}
		var total, n float64
		user.ForEach(func(ratedId int64, value float64) {
			coratings := p.model.Coratings(itemId, ratedId)
			if coratings == 0 {
				return
			}
			term := p.model.Deviation(itemId, ratedId) + value
			if p.weighted {
				total += term * float64(coratings)
				n += float64(coratings)
			} else {
				total += term
				n++
			}
		})
		if n == 0 {
			unpredictable = append(unpredictable, itemId)
			continue
		}
		result.Set(itemId, p.model.Domain().Clamp(total/n))
	}
	PredictionsTotal.WithLabelValues(SourceSlopeOne).Add(float64(result.Len()))
	UnpredictableItemsTotal.Add(float64(len(unpredictable)))

	if len(unpredictable) > 0 && p.model.Baseline() != nil {
		scores, err := p.model.Baseline().Predict(history.UserId(), user, unpredictable)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if scores == nil {
			scores = sparse.Empty()
		}
		// baseline results outside the unpredictable items are dropped
		pending := mapset.NewThreadUnsafeSet(unpredictable...)
		filled := 0
		scores.ForEach(func(itemId int64, value float64) {
			if pending.Contains(itemId) {
				result.Set(itemId, value)
				filled++
			}
		})
		PredictionsTotal.WithLabelValues(SourceBaseline).Add(float64(filled))
	}
	return result.Freeze(), nil
}

// ScoreUser loads the history of a user and scores items for the user.
func (p *Predictor) ScoreUser(ctx context.Context, db HistorySource, userId int64, items []int64) (*sparse.Vector, error) {
	events, err := db.GetUserEvents(ctx, userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	history, err := event.NewUserHistory(userId, events)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return p.Score(history, items)
}
