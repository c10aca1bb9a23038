// Copyright 2021 gorse Project Authors
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

package data

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BatchInsertEventsSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "slopeone",
		Subsystem: "database",
		Name:      "batch_insert_events_seconds",
	})
	GetUserEventsSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "slopeone",
		Subsystem: "database",
		Name:      "get_user_events_seconds",
	})
	GetEventStreamSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "slopeone",
		Subsystem: "database",
		Name:      "get_event_stream_seconds",
	})
)

// observeSince records the seconds elapsed since start.
func observeSince(histogram prometheus.Histogram, start time.Time) {
	histogram.Observe(time.Since(start).Seconds())
}
