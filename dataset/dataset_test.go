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
	"bufio"
	"strings"
	"testing"

	"github.com/gorse-io/slopeone/common/sparse"
	"github.com/gorse-io/slopeone/event"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatings(t *testing.T) {
	ratings, err := FromEvents([]event.Event{
		event.NewRating(2, 10, 4, 1),
		event.NewRating(1, 10, 5, 1),
		event.NewRating(1, 20, 3, 2),
		event.NewRating(1, 20, 1, 3),
		event.NewPlus(3, 30),
		event.NewRating(4, 40, 2, 1),
		event.Unrate(4, 40, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ratings.UserCount())
	assert.Equal(t, 2, ratings.ItemCount())
	assert.Equal(t, 3, ratings.Count())
	assert.Equal(t, []int64{1, 2}, ratings.Users())
	assert.InDelta(t, 10.0/3, ratings.GlobalMean(), 1e-9)

	vec, ok := ratings.UserRatings(1)
	require.True(t, ok)
	assert.Equal(t, map[int64]float64{10: 5, 20: 1}, vec.ToMap())
	_, ok = ratings.UserRatings(3)
	assert.False(t, ok)

	var visited []int64
	ratings.ForEach(func(userId int64, _ *sparse.Vector) {
		visited = append(visited, userId)
	})
	assert.Equal(t, []int64{1, 2}, visited)

	stats := ratings.ItemStatistics()
	assert.Equal(t, ItemStatistic{Sum: 9, Count: 2}, stats[10])
	assert.Equal(t, ItemStatistic{Sum: 1, Count: 1}, stats[20])
	assert.Equal(t, 4.5, stats[10].Mean())
	assert.Zero(t, ItemStatistic{}.Mean())
}

func TestRatings_Empty(t *testing.T) {
	ratings, err := FromEvents(nil)
	require.NoError(t, err)
	assert.Zero(t, ratings.UserCount())
	assert.Zero(t, ratings.ItemCount())
	assert.Zero(t, ratings.GlobalMean())
}

func TestNewRatings_Duplicate(t *testing.T) {
	a, err := event.NewUserHistory(1, []event.Event{event.NewRating(1, 1, 1, 1)})
	require.NoError(t, err)
	b, err := event.NewUserHistory(1, []event.Event{event.NewRating(1, 2, 1, 1)})
	require.NoError(t, err)
	_, err = NewRatings([]*event.UserHistory{a, b}, nil)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestNewRatings_Summarizer(t *testing.T) {
	history, err := event.NewUserHistory(1, []event.Event{
		event.NewMultiPlus(1, 10, 3),
		event.NewPlus(1, 10),
		event.NewPlus(1, 20),
	})
	require.NoError(t, err)
	ratings, err := NewRatings([]*event.UserHistory{history}, event.EventCountSummarizer{})
	require.NoError(t, err)
	vec, ok := ratings.UserRatings(1)
	require.True(t, ok)
	assert.Equal(t, map[int64]float64{10: 4, 20: 1}, vec.ToMap())
}

func TestLoadEventsFromCSV(t *testing.T) {
	events, err := LoadEventsFromCSV("testdata/ratings.csv", ",", true)
	require.NoError(t, err)
	assert.Equal(t, []event.Event{
		event.NewRating(1, 10, 4.5, 964982703),
		event.NewRating(1, 20, 3, 964981247),
		event.NewRating(2, 10, 2.5, 964982224),
		event.NewRating(3, 30, 5, event.Unset),
	}, events)

	_, err = LoadEventsFromCSV("testdata/not_exist.csv", ",", true)
	assert.Error(t, err)
}

func TestLoadEvents(t *testing.T) {
	// MovieLens 100K
	events, err := LoadEvents(strings.NewReader("196\t242\t3\t881250949\n186\t302\t3\t891717742\n"), "\t", false)
	require.NoError(t, err)
	assert.Equal(t, []event.Event{
		event.NewRating(196, 242, 3, 881250949),
		event.NewRating(186, 302, 3, 891717742),
	}, events)
	// MovieLens 1M
	events, err = LoadEvents(strings.NewReader("1::1193::5::978300760\n"), "::", false)
	require.NoError(t, err)
	assert.Equal(t, []event.Event{event.NewRating(1, 1193, 5, 978300760)}, events)
	// parse failures
	_, err = LoadEvents(strings.NewReader("1,2,3\n1,x,3\n"), ",", false)
	assert.True(t, errors.Is(err, errors.NotValid))
	assert.Contains(t, err.Error(), "line 2")
	_, err = LoadEvents(strings.NewReader("1,2\n"), ",", false)
	assert.True(t, errors.Is(err, errors.NotValid))
	_, err = LoadEvents(strings.NewReader("1,2,3\n"), "", false)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestReadLines(t *testing.T) {
	var lines [][]string
	err := readLines(bufio.NewScanner(strings.NewReader("a,\"b,c\",\"d\"\"e\"\n\"f\ng\",h\n")), ",", func(_ int, fields []string) bool {
		lines = append(lines, fields)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b,c", "d\"e"}, {"f\r\ng", "h"}}, lines)
}
