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

// Package baseline provides simple rating predictors used as fallbacks when a
// collaborative model cannot score an item.
package baseline

import (
	"github.com/gorse-io/slopeone/common/sparse"
	"github.com/gorse-io/slopeone/dataset"
	"github.com/juju/errors"
)

const (
	NameConstant     = "constant"
	NameGlobalMean   = "global_mean"
	NameItemMean     = "item_mean"
	NameUserMean     = "user_mean"
	NameItemUserMean = "item_user_mean"
)

// Predictor predicts ratings of items for a user given the ratings of the user.
// Items without a prediction are absent from the result.
type Predictor interface {
	Predict(userId int64, ratings *sparse.Vector, items []int64) (*sparse.Vector, error)
}

// New fits a baseline predictor by name. Damping is ignored by predictors
// without offsets.
func New(name string, ratings *dataset.Ratings, damping float64) (Predictor, error) {
	if damping < 0 {
		return nil, errors.NotValidf("negative damping %v", damping)
	}
	switch name {
	case NameConstant:
		return &Constant{}, nil
	case NameGlobalMean:
		return FitGlobalMean(ratings), nil
	case NameItemMean:
		return FitItemMean(ratings, damping), nil
	case NameUserMean:
		return FitUserMean(ratings, damping), nil
	case NameItemUserMean:
		return FitItemUserMean(ratings, damping), nil
	}
	return nil, errors.NotSupportedf("baseline %q", name)
}

// Constant predicts the same value for every item.
type Constant struct {
	Value float64
}

func (c *Constant) Predict(_ int64, _ *sparse.Vector, items []int64) (*sparse.Vector, error) {
	vec := sparse.NewMutable()
	for _, itemId := range items {
		vec.Set(itemId, c.Value)
	}
	return vec.Freeze(), nil
}

// GlobalMean predicts the mean of all ratings.
type GlobalMean struct {
	Mean float64
}

func FitGlobalMean(ratings *dataset.Ratings) *GlobalMean {
	return &GlobalMean{Mean: ratings.GlobalMean()}
}

func (g *GlobalMean) Predict(_ int64, _ *sparse.Vector, items []int64) (*sparse.Vector, error) {
	return (&Constant{Value: g.Mean}).Predict(0, nil, items)
}

// ItemMean predicts the damped mean of an item:
//
//	μ + Σ(r_ui - μ) / (n_i + damping)
//
// Unknown items are predicted as μ.
type ItemMean struct {
	GlobalMean float64
	Offsets    map[int64]float64
}

func FitItemMean(ratings *dataset.Ratings, damping float64) *ItemMean {
	mean := ratings.GlobalMean()
	stats := ratings.ItemStatistics()
	offsets := make(map[int64]float64, len(stats))
	for itemId, s := range stats {
		offsets[itemId] = (s.Sum - mean*float64(s.Count)) / (float64(s.Count) + damping)
	}
	return &ItemMean{GlobalMean: mean, Offsets: offsets}
}

func (m *ItemMean) itemMean(itemId int64) float64 {
	return m.GlobalMean + m.Offsets[itemId]
}

func (m *ItemMean) Predict(_ int64, _ *sparse.Vector, items []int64) (*sparse.Vector, error) {
	vec := sparse.NewMutable()
	for _, itemId := range items {
		vec.Set(itemId, m.itemMean(itemId))
	}
	return vec.Freeze(), nil
}

// UserMean predicts the damped mean of the supplied ratings of a user:
//
//	μ + Σ(r_ui - μ) / (n_u + damping)
type UserMean struct {
	GlobalMean float64
	Damping    float64
}

func FitUserMean(ratings *dataset.Ratings, damping float64) *UserMean {
	return &UserMean{GlobalMean: ratings.GlobalMean(), Damping: damping}
}

func (m *UserMean) Predict(_ int64, ratings *sparse.Vector, items []int64) (*sparse.Vector, error) {
	offset := userOffset(ratings, m.Damping, func(int64) float64 { return m.GlobalMean })
	return (&Constant{Value: m.GlobalMean + offset}).Predict(0, nil, items)
}

// ItemUserMean predicts the item mean plus the damped mean offset of the user
// from the means of the items they rated.
type ItemUserMean struct {
	ItemMean
	Damping float64
}

func FitItemUserMean(ratings *dataset.Ratings, damping float64) *ItemUserMean {
	return &ItemUserMean{ItemMean: *FitItemMean(ratings, damping), Damping: damping}
}

func (m *ItemUserMean) Predict(_ int64, ratings *sparse.Vector, items []int64) (*sparse.Vector, error) {
	offset := userOffset(ratings, m.Damping, m.itemMean)
	vec := sparse.NewMutable()
	for _, itemId := range items {
		vec.Set(itemId, m.itemMean(itemId)+offset)
	}
	return vec.Freeze(), nil
}

func userOffset(ratings *sparse.Vector, damping float64, baseline func(int64) float64) float64 {
	if ratings == nil || ratings.IsEmpty() {
		return 0
	}
	var sum float64
	ratings.ForEach(func(itemId int64, value float64) {
		sum += value - baseline(itemId)
	})
	return sum / (float64(ratings.Len()) + damping)
}
