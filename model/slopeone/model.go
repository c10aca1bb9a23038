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

// Package slopeone implements Slope One rating prediction. A Model stores, for
// every pair of items rated by at least one common user, the number of such
// users and the mean difference between their ratings. A Predictor scores
// items for a user from the ratings the user already gave.
package slopeone

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gorse-io/slopeone/model"
	"github.com/gorse-io/slopeone/model/baseline"
)

// pair is an unordered pair of items stored with a < b.
type pair struct {
	a, b int64
}

func makePair(a, b int64) (pair, bool) {
	if a > b {
		return pair{a: b, b: a}, true
	}
	return pair{a: a, b: b}, false
}

// stat holds the co-rating count of a pair and the mean of r(a) - r(b).
type stat struct {
	count     int
	deviation float64
}

// Model is a trained Slope One model. It is immutable and safe for concurrent use.
type Model struct {
	domain   *model.Domain
	baseline baseline.Predictor
	pairs    map[pair]stat
	items    int
}

// Coratings returns the number of users who rated both items. It is zero for
// unknown pairs and for a == b.
func (m *Model) Coratings(a, b int64) int {
	if a == b {
		return 0
	}
	key, _ := makePair(a, b)
	return m.pairs[key].count
}

// Deviation returns the mean of r(a) - r(b) over users who rated both items.
// Deviation(b, a) is -Deviation(a, b). It panics if no user rated both items.
func (m *Model) Deviation(a, b int64) float64 {
	key, swapped := makePair(a, b)
	s, ok := m.pairs[key]
	if !ok || a == b {
		panic(fmt.Sprintf("slopeone: items %d and %d have no co-ratings", a, b))
	}
	if swapped {
		return -s.deviation
	}
	return s.deviation
}

// Domain returns the rating domain predictions are clamped to.
func (m *Model) Domain() *model.Domain {
	return m.domain
}

// Baseline returns the fallback predictor. It may be nil.
func (m *Model) Baseline() baseline.Predictor {
	return m.baseline
}

// ItemCount returns the number of items seen in training.
func (m *Model) ItemCount() int {
	return m.items
}

// PairCount returns the number of item pairs with co-ratings.
func (m *Model) PairCount() int {
	return len(m.pairs)
}

// ForEachPair visits pairs with a < b in ascending order.
func (m *Model) ForEachPair(f func(a, b int64, coratings int, deviation float64)) {
	keys := make([]pair, 0, len(m.pairs))
	for key := range m.pairs {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(x, y pair) int {
		return cmp.Or(cmp.Compare(x.a, y.a), cmp.Compare(x.b, y.b))
	})
	for _, key := range keys {
		s := m.pairs[key]
		f(key.a, key.b, s.count, s.deviation)
	}
}
