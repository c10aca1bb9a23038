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

import "cmp"

// Comparator is a total order over events, usable with slices.SortStableFunc.
type Comparator func(a, b Event) int

// ByTimestamp orders events by ascending timestamp.
func ByTimestamp(a, b Event) int {
	return cmp.Compare(a.Timestamp(), b.Timestamp())
}

// ByUserTime orders events by user, then timestamp.
func ByUserTime(a, b Event) int {
	return cmp.Or(
		cmp.Compare(a.UserId(), b.UserId()),
		cmp.Compare(a.Timestamp(), b.Timestamp()),
	)
}

// ByItemTime orders events by item, then timestamp.
func ByItemTime(a, b Event) int {
	return cmp.Or(
		cmp.Compare(a.ItemId(), b.ItemId()),
		cmp.Compare(a.Timestamp(), b.Timestamp()),
	)
}

var (
	_ Comparator = ByTimestamp
	_ Comparator = ByUserTime
	_ Comparator = ByItemTime
)
