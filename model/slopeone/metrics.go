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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SourceSlopeOne = "slope_one"
	SourceBaseline = "baseline"
)

var (
	BuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "slopeone",
		Subsystem: "model",
		Name:      "build_seconds",
	})
	ModelItems = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "slopeone",
		Subsystem: "model",
		Name:      "items",
	})
	ModelPairs = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "slopeone",
		Subsystem: "model",
		Name:      "pairs",
	})
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slopeone",
		Name:      "predictions_total",
		Help:      "Number of predicted items by source.",
	}, []string{"source"})
	UnpredictableItemsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "slopeone",
		Name:      "unpredictable_items_total",
		Help:      "Number of items Slope One could not score.",
	})
)
