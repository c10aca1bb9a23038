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

package baseline

import (
	"bytes"
	"testing"

	"github.com/gorse-io/slopeone/common/sparse"
	"github.com/gorse-io/slopeone/dataset"
	"github.com/gorse-io/slopeone/event"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatings(t *testing.T) *dataset.Ratings {
	ratings, err := dataset.FromEvents([]event.Event{
		event.NewRating(1, 10, 5, 1),
		event.NewRating(1, 20, 3, 2),
		event.NewRating(2, 10, 4, 1),
		event.NewRating(3, 20, 1, 1),
		event.NewRating(3, 30, 2, 2),
	})
	require.NoError(t, err)
	return ratings
}

func predict(t *testing.T, p Predictor, ratings map[int64]float64, items ...int64) map[int64]float64 {
	vec, err := p.Predict(1, sparse.FromMap(ratings), items)
	require.NoError(t, err)
	return vec.ToMap()
}

func TestConstant(t *testing.T) {
	p := &Constant{Value: 2.5}
	assert.Equal(t, map[int64]float64{1: 2.5, 2: 2.5}, predict(t, p, nil, 2, 1, 2))
	assert.Empty(t, predict(t, p, nil))
}

func TestGlobalMean(t *testing.T) {
	p := FitGlobalMean(newRatings(t))
	assert.Equal(t, 3.0, p.Mean)
	assert.Equal(t, map[int64]float64{10: 3, 99: 3}, predict(t, p, nil, 10, 99))
}

func TestItemMean(t *testing.T) {
	p := FitItemMean(newRatings(t), 0)
	scores := predict(t, p, nil, 10, 20, 30, 99)
	assert.InDelta(t, 4.5, scores[10], 1e-9)
	assert.InDelta(t, 2.0, scores[20], 1e-9)
	assert.InDelta(t, 2.0, scores[30], 1e-9)
	assert.InDelta(t, 3.0, scores[99], 1e-9)

	damped := FitItemMean(newRatings(t), 1)
	scores = predict(t, damped, nil, 10)
	assert.InDelta(t, 4.0, scores[10], 1e-9)
}

func TestUserMean(t *testing.T) {
	p := FitUserMean(newRatings(t), 0)
	scores := predict(t, p, map[int64]float64{10: 5, 20: 3}, 30)
	assert.InDelta(t, 4.0, scores[30], 1e-9)
	// no ratings
	scores = predict(t, p, nil, 30)
	assert.InDelta(t, 3.0, scores[30], 1e-9)

	damped := FitUserMean(newRatings(t), 2)
	scores = predict(t, damped, map[int64]float64{10: 5, 20: 3}, 30)
	assert.InDelta(t, 3.5, scores[30], 1e-9)
}

func TestItemUserMean(t *testing.T) {
	p := FitItemUserMean(newRatings(t), 0)
	scores := predict(t, p, map[int64]float64{10: 5, 20: 3}, 30, 99)
	assert.InDelta(t, 2.75, scores[30], 1e-9)
	assert.InDelta(t, 3.75, scores[99], 1e-9)
}

func TestNew(t *testing.T) {
	ratings := newRatings(t)
	for name, expected := range map[string]Predictor{
		NameConstant:     &Constant{},
		NameGlobalMean:   &GlobalMean{},
		NameItemMean:     &ItemMean{},
		NameUserMean:     &UserMean{},
		NameItemUserMean: &ItemUserMean{},
	} {
		p, err := New(name, ratings, 0)
		require.NoError(t, err, name)
		assert.IsType(t, expected, p, name)
	}
	_, err := New("unknown", ratings, 0)
	assert.True(t, errors.Is(err, errors.NotSupported))
	_, err = New(NameItemMean, ratings, -1)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestMarshal(t *testing.T) {
	ratings := newRatings(t)
	for _, name := range []string{NameConstant, NameGlobalMean, NameItemMean, NameUserMean, NameItemUserMean} {
		p, err := New(name, ratings, 1)
		require.NoError(t, err)
		buf := bytes.NewBuffer(nil)
		require.NoError(t, Marshal(buf, p))
		restored, err := Unmarshal(buf)
		require.NoError(t, err, name)
		assert.Equal(t,
			predict(t, p, map[int64]float64{10: 5}, 10, 20, 30, 99),
			predict(t, restored, map[int64]float64{10: 5}, 10, 20, 30, 99), name)
	}

	// nil predictor
	buf := bytes.NewBuffer(nil)
	require.NoError(t, Marshal(buf, nil))
	restored, err := Unmarshal(buf)
	require.NoError(t, err)
	assert.Nil(t, restored)
}
