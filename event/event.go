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

// Package event defines immutable user-item interaction records. An Event is
// either a *Rating, which carries an explicit score, or a *Plus, which records
// implicit feedback with a count.
package event

import "fmt"

// Unset is the timestamp of an event with no recorded time.
const Unset int64 = -1

// Event is a user-item interaction. Implementations are *Rating and *Plus.
type Event interface {
	UserId() int64
	ItemId() int64
	Timestamp() int64
	isEvent()
}

type header struct {
	userId    int64
	itemId    int64
	timestamp int64
}

// UserId returns the user who produced the event.
func (h header) UserId() int64 {
	return h.userId
}

// ItemId returns the item the event is about.
func (h header) ItemId() int64 {
	return h.itemId
}

// Timestamp returns the time of the event, or Unset.
func (h header) Timestamp() int64 {
	return h.timestamp
}

// Rating is an explicit rating. A rating without value is an unrate: it records
// that the user withdrew the rating of the item.
type Rating struct {
	header
	value    float64
	hasValue bool
}

func (*Rating) isEvent() {}

// NewRating creates a rating.
func NewRating(user, item int64, value float64, timestamp int64) *Rating {
	return &Rating{
		header:   header{userId: user, itemId: item, timestamp: timestamp},
		value:    value,
		hasValue: true,
	}
}

// Unrate creates a rating without value.
func Unrate(user, item int64, timestamp int64) *Rating {
	return &Rating{header: header{userId: user, itemId: item, timestamp: timestamp}}
}

// Value returns the score. It is zero for an unrate.
func (r *Rating) Value() float64 {
	return r.value
}

// HasValue returns false for an unrate.
func (r *Rating) HasValue() bool {
	return r.hasValue
}

func (r *Rating) String() string {
	if !r.hasValue {
		return fmt.Sprintf("Rating(user=%d, item=%d, unrated, ts=%d)", r.userId, r.itemId, r.timestamp)
	}
	return fmt.Sprintf("Rating(user=%d, item=%d, value=%v, ts=%d)", r.userId, r.itemId, r.value, r.timestamp)
}

// Plus is an implicit feedback event, such as a click or a purchase, that may
// stand for several occurrences.
type Plus struct {
	header
	count int
}

func (*Plus) isEvent() {}

// Count returns the number of occurrences.
func (p *Plus) Count() int {
	return p.count
}

func (p *Plus) String() string {
	return fmt.Sprintf("Plus(user=%d, item=%d, count=%d, ts=%d)", p.userId, p.itemId, p.count, p.timestamp)
}

// NewPlus creates a Plus with a count of 1 and no timestamp.
func NewPlus(user, item int64) *Plus {
	return NewPlusAt(user, item, Unset)
}

// NewPlusAt creates a Plus with a count of 1.
func NewPlusAt(user, item, timestamp int64) *Plus {
	return NewMultiPlusAt(user, item, 1, timestamp)
}

// NewMultiPlus creates a Plus with the given count and no timestamp.
func NewMultiPlus(user, item int64, count int) *Plus {
	return NewMultiPlusAt(user, item, count, Unset)
}

// NewMultiPlusAt creates a Plus with the given count. The count is not checked:
// zero or negative counts are stored as given and interpreted by consumers.
func NewMultiPlusAt(user, item int64, count int, timestamp int64) *Plus {
	return &Plus{
		header: header{userId: user, itemId: item, timestamp: timestamp},
		count:  count,
	}
}
