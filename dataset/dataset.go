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

package dataset

import (
	"cmp"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/slopeone/common/sparse"
	"github.com/gorse-io/slopeone/event"
	"github.com/juju/errors"
)

// ItemStatistic is the sum and number of ratings of an item.
type ItemStatistic struct {
	Sum   float64
	Count int
}

// Mean returns the average rating of the item.
func (s ItemStatistic) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Ratings is a training corpus of per-user rating vectors. Users are kept in
// ascending order of ID.
type Ratings struct {
	userIds []int64
	vectors []*sparse.Vector
	index   map[int64]int
	count   int
	items   mapset.Set[int64]
}

// NewRatings summarizes each history into a rating vector. Users without any
// rating are skipped.
func NewRatings(histories []*event.UserHistory, summarizer event.Summarizer) (*Ratings, error) {
	if summarizer == nil {
		summarizer = event.RatingVectorSummarizer{}
	}
	sorted := slices.Clone(histories)
	slices.SortStableFunc(sorted, func(a, b *event.UserHistory) int {
		return cmp.Compare(a.UserId(), b.UserId())
	})
	ratings := &Ratings{
		index: make(map[int64]int, len(sorted)),
		items: mapset.NewThreadUnsafeSet[int64](),
	}
	for _, history := range sorted {
		if _, exist := ratings.index[history.UserId()]; exist {
			return nil, errors.NotValidf("duplicate history of user %d", history.UserId())
		}
		vec, err := summarizer.Summarize(history)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if vec == nil || vec.IsEmpty() {
			continue
		}
		ratings.index[history.UserId()] = len(ratings.userIds)
		ratings.userIds = append(ratings.userIds, history.UserId())
		ratings.vectors = append(ratings.vectors, vec)
		ratings.count += vec.Len()
		ratings.items.Append(vec.Keys()...)
	}
	return ratings, nil
}

// FromEvents groups events by user and summarizes them into rating vectors.
func FromEvents(events []event.Event) (*Ratings, error) {
	return NewRatings(event.GroupByUser(events), event.RatingVectorSummarizer{})
}

// UserCount returns the number of users with at least one rating.
func (r *Ratings) UserCount() int {
	return len(r.userIds)
}

// ItemCount returns the number of distinct rated items.
func (r *Ratings) ItemCount() int {
	return r.items.Cardinality()
}

// Count returns the number of ratings.
func (r *Ratings) Count() int {
	return r.count
}

// GlobalMean returns the mean of all ratings, or zero if there is none.
func (r *Ratings) GlobalMean() float64 {
	if r.count == 0 {
		return 0
	}
	var sum float64
	for _, vec := range r.vectors {
		sum += vec.Sum()
	}
	return sum / float64(r.count)
}

// Users returns user IDs in ascending order.
func (r *Ratings) Users() []int64 {
	return slices.Clone(r.userIds)
}

// UserRatings returns the rating vector of a user.
func (r *Ratings) UserRatings(userId int64) (*sparse.Vector, bool) {
	i, ok := r.index[userId]
	if !ok {
		return nil, false
	}
	return r.vectors[i], true
}

// ForEach visits users in ascending order of ID.
func (r *Ratings) ForEach(f func(userId int64, ratings *sparse.Vector)) {
	for i, userId := range r.userIds {
		f(userId, r.vectors[i])
	}
}

// ItemStatistics returns the sum and count of ratings per item.
func (r *Ratings) ItemStatistics() map[int64]ItemStatistic {
	stats := make(map[int64]ItemStatistic, r.items.Cardinality())
	for _, vec := range r.vectors {
		vec.ForEach(func(itemId int64, value float64) {
			s := stats[itemId]
			s.Sum += value
			s.Count++
			stats[itemId] = s
		})
	}
	return stats
}
