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

package event

import (
	"github.com/gorse-io/slopeone/common/sparse"
)

// Summarizer reduces a user history into a vector keyed by item.
type Summarizer interface {
	Summarize(history *UserHistory) (*sparse.Vector, error)
}

// RatingVectorSummarizer keeps the latest rating of each item. A later unrate
// removes the item. Other events are ignored.
type RatingVectorSummarizer struct{}

func (RatingVectorSummarizer) Summarize(history *UserHistory) (*sparse.Vector, error) {
	vec := sparse.NewMutable()
	// events are sorted by timestamp, so later ratings win
	for _, e := range history.events {
		r, ok := e.(*Rating)
		if !ok {
			continue
		}
		if r.HasValue() {
			vec.Set(r.ItemId(), r.Value())
		} else {
			vec.Delete(r.ItemId())
		}
	}
	return vec.Freeze(), nil
}

// EventCountSummarizer counts events of each item. A Plus counts as many
// occurrences as its count, any other event as one.
type EventCountSummarizer struct{}

func (EventCountSummarizer) Summarize(history *UserHistory) (*sparse.Vector, error) {
	counts := make(map[int64]float64)
	for _, e := range history.events {
		if p, ok := e.(*Plus); ok {
			counts[p.ItemId()] += float64(p.Count())
		} else {
			counts[e.ItemId()]++
		}
	}
	return sparse.FromMap(counts), nil
}

// MakeRatingVector summarizes a history with RatingVectorSummarizer.
func MakeRatingVector(history *UserHistory) *sparse.Vector {
	vec, _ := RatingVectorSummarizer{}.Summarize(history)
	return vec
}
