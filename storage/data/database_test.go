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
	"context"
	"slices"

	"github.com/gorse-io/slopeone/event"
	"github.com/stretchr/testify/suite"
)

type baseTestSuite struct {
	suite.Suite
	Database
}

func (suite *baseTestSuite) SetupTest() {
	err := suite.Database.Ping(context.Background())
	suite.Require().NoError(err)
	err = suite.Database.Purge()
	suite.Require().NoError(err)
}

func (suite *baseTestSuite) TearDownSuite() {
	err := suite.Database.Close()
	suite.NoError(err)
}

func (suite *baseTestSuite) TestEvents() {
	ctx := context.Background()
	err := suite.Database.BatchInsertEvents(ctx, []event.Event{
		event.NewRating(1, 10, 4, 300),
		event.NewRating(1, 20, 3, 100),
		event.Unrate(1, 20, 200),
		event.NewMultiPlusAt(1, 30, 5, 150),
		event.NewRating(2, 10, 2, 100),
	})
	suite.NoError(err)
	events, err := suite.Database.GetUserEvents(ctx, 1)
	suite.NoError(err)
	suite.Equal([]event.Event{
		event.NewRating(1, 20, 3, 100),
		event.NewMultiPlusAt(1, 30, 5, 150),
		event.Unrate(1, 20, 200),
		event.NewRating(1, 10, 4, 300),
	}, events)

	// overwrite an existing event
	err = suite.Database.BatchInsertEvents(ctx, []event.Event{
		event.NewRating(1, 10, 1, 300),
		event.NewRating(1, 10, 5, 300),
	})
	suite.NoError(err)
	events, err = suite.Database.GetUserEvents(ctx, 1)
	suite.NoError(err)
	suite.Len(events, 4)
	suite.Equal(event.NewRating(1, 10, 5, 300), events[3])

	// unknown user
	events, err = suite.Database.GetUserEvents(ctx, 3)
	suite.NoError(err)
	suite.Empty(events)

	// empty batch
	err = suite.Database.BatchInsertEvents(ctx, nil)
	suite.NoError(err)
}

func (suite *baseTestSuite) TestEventStream() {
	ctx := context.Background()
	var events []event.Event
	for userId := int64(0); userId < 5; userId++ {
		for itemId := int64(0); itemId < 3; itemId++ {
			events = append(events, event.NewRating(userId, itemId, float64(itemId+1), 10-itemId))
		}
	}
	slices.Reverse(events)
	err := suite.Database.BatchInsertEvents(ctx, events)
	suite.NoError(err)

	eventChan, errChan := suite.Database.GetEventStream(ctx, 4)
	var streamed []event.Event
	for batch := range eventChan {
		suite.LessOrEqual(len(batch), 4)
		streamed = append(streamed, batch...)
	}
	suite.NoError(<-errChan)
	suite.Len(streamed, 15)
	for i := 1; i < len(streamed); i++ {
		suite.LessOrEqual(event.ByUserTime(streamed[i-1], streamed[i]), 0)
	}
}

func (suite *baseTestSuite) TestPurge() {
	ctx := context.Background()
	err := suite.Database.BatchInsertEvents(ctx, []event.Event{event.NewRating(1, 10, 4, 1)})
	suite.NoError(err)
	err = suite.Database.Purge()
	suite.NoError(err)
	events, err := suite.Database.GetUserEvents(ctx, 1)
	suite.NoError(err)
	suite.Empty(events)
}

func (suite *baseTestSuite) TestGetUserHistory() {
	ctx := context.Background()
	err := suite.Database.BatchInsertEvents(ctx, []event.Event{
		event.NewRating(1, 10, 4, 2),
		event.NewRating(1, 10, 2, 1),
	})
	suite.NoError(err)
	history, err := GetUserHistory(ctx, suite.Database, 1)
	suite.NoError(err)
	suite.Equal(int64(1), history.UserId())
	suite.Equal(map[int64]float64{10: 4}, event.MakeRatingVector(history).ToMap())
}

func (suite *baseTestSuite) TestLoadRatings() {
	ctx := context.Background()
	err := suite.Database.BatchInsertEvents(ctx, []event.Event{
		event.NewRating(1, 10, 4, 1),
		event.NewRating(1, 20, 2, 1),
		event.NewRating(2, 10, 3, 1),
		event.NewPlus(3, 10),
	})
	suite.NoError(err)
	ratings, err := LoadRatings(ctx, suite.Database, 2, event.RatingVectorSummarizer{})
	suite.NoError(err)
	suite.Equal([]int64{1, 2}, ratings.Users())
	suite.Equal(3, ratings.Count())

	ratings, err = LoadRatings(ctx, suite.Database, 2, event.EventCountSummarizer{})
	suite.NoError(err)
	suite.Equal([]int64{1, 2, 3}, ratings.Users())
}
