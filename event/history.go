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
	"slices"

	"github.com/juju/errors"
)

// UserHistory is the sequence of events of a single user, ordered by timestamp.
type UserHistory struct {
	userId int64
	events []Event
}

// NewUserHistory creates the history of a user. Every event must belong to the
// user. Events are stably sorted by timestamp.
func NewUserHistory(userId int64, events []Event) (*UserHistory, error) {
	for _, e := range events {
		if e.UserId() != userId {
			return nil, errors.NotValidf("event of user %d in history of user %d", e.UserId(), userId)
		}
	}
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, ByTimestamp)
	return &UserHistory{userId: userId, events: sorted}, nil
}

// UserId returns the owner of the history.
func (h *UserHistory) UserId() int64 {
	return h.userId
}

// Len returns the number of events.
func (h *UserHistory) Len() int {
	return len(h.events)
}

// Events returns a copy of the events.
func (h *UserHistory) Events() []Event {
	return slices.Clone(h.events)
}

// Ratings returns the rating events of the history.
func (h *UserHistory) Ratings() []*Rating {
	var ratings []*Rating
	for _, e := range h.events {
		if r, ok := e.(*Rating); ok {
			ratings = append(ratings, r)
		}
	}
	return ratings
}

// GroupByUser splits events into per-user histories, ordered by user ID.
func GroupByUser(events []Event) []*UserHistory {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, ByUserTime)
	var histories []*UserHistory
	for begin := 0; begin < len(sorted); {
		end := begin + 1
		for end < len(sorted) && sorted[end].UserId() == sorted[begin].UserId() {
			end++
		}
		histories = append(histories, &UserHistory{
			userId: sorted[begin].UserId(),
			events: sorted[begin:end:end],
		})
		begin = end
	}
	return histories
}
