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
	"time"

	"github.com/gorse-io/slopeone/event"
	"github.com/gorse-io/slopeone/storage"
	"github.com/juju/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB is the data storage based on MongoDB.
type MongoDB struct {
	storage.TablePrefix
	client *mongo.Client
	dbName string
}

func (db *MongoDB) events() *mongo.Collection {
	return db.client.Database(db.dbName).Collection(db.EventsTable())
}

// Init the events collection and its indices.
func (db *MongoDB) Init() error {
	ctx := context.Background()
	d := db.client.Database(db.dbName)
	// list collections
	collections, err := d.ListCollectionNames(ctx, bson.M{"name": db.EventsTable()})
	if err != nil {
		return errors.Trace(err)
	}
	// create collection
	if len(collections) == 0 {
		if err = d.CreateCollection(ctx, db.EventsTable()); err != nil {
			return errors.Trace(err)
		}
	}
	// create index
	_, err = db.events().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "item_id", Value: 1},
			{Key: "time_stamp", Value: 1},
			{Key: "kind", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return errors.Trace(err)
}

func (db *MongoDB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, nil)
}

// Close connection to MongoDB.
func (db *MongoDB) Close() error {
	return db.client.Disconnect(context.Background())
}

// Purge deletes all events.
func (db *MongoDB) Purge() error {
	_, err := db.events().DeleteMany(context.Background(), bson.M{})
	return errors.Trace(err)
}

// BatchInsertEvents upserts events by user, item, timestamp and kind.
func (db *MongoDB) BatchInsertEvents(ctx context.Context, events []event.Event) error {
	defer observeSince(BatchInsertEventsSeconds, time.Now())
	if len(events) == 0 {
		return nil
	}
	records, err := newEventRecords(events)
	if err != nil {
		return errors.Trace(err)
	}
	var models []mongo.WriteModel
	for _, record := range records {
		models = append(models, mongo.NewUpdateOneModel().
			SetUpsert(true).
			SetFilter(bson.M{
				"user_id":    record.UserId,
				"item_id":    record.ItemId,
				"time_stamp": record.Timestamp,
				"kind":       record.Kind,
			}).
			SetUpdate(bson.M{"$set": record}))
	}
	_, err = db.events().BulkWrite(ctx, models)
	return errors.Trace(err)
}

// GetUserEvents returns events of a user ordered by timestamp.
func (db *MongoDB) GetUserEvents(ctx context.Context, userId int64) ([]event.Event, error) {
	defer observeSince(GetUserEventsSeconds, time.Now())
	opt := options.Find().SetSort(bson.D{
		{Key: "time_stamp", Value: 1},
		{Key: "item_id", Value: 1},
		{Key: "kind", Value: 1},
	})
	cursor, err := db.events().Find(ctx, bson.M{"user_id": userId}, opt)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var records []EventRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, errors.Trace(err)
	}
	return recordsToEvents(records)
}

// GetEventStream streams events ordered by user and timestamp.
func (db *MongoDB) GetEventStream(ctx context.Context, batchSize int) (chan []event.Event, chan error) {
	batchSize = max(batchSize, 1)
	eventChan := make(chan []event.Event, bufSize)
	errChan := make(chan error, 1)
	go func() {
		defer close(eventChan)
		defer close(errChan)
		defer observeSince(GetEventStreamSeconds, time.Now())
		opt := options.Find().SetSort(bson.D{
			{Key: "user_id", Value: 1},
			{Key: "time_stamp", Value: 1},
			{Key: "item_id", Value: 1},
			{Key: "kind", Value: 1},
		})
		cursor, err := db.events().Find(ctx, bson.M{}, opt)
		if err != nil {
			errChan <- errors.Trace(err)
			return
		}
		defer cursor.Close(ctx)
		events := make([]event.Event, 0, batchSize)
		for cursor.Next(ctx) {
			var record EventRecord
			if err = cursor.Decode(&record); err != nil {
				errChan <- errors.Trace(err)
				return
			}
			e, err := record.Event()
			if err != nil {
				errChan <- errors.Trace(err)
				return
			}
			events = append(events, e)
			if len(events) == batchSize {
				eventChan <- events
				events = make([]event.Event, 0, batchSize)
			}
		}
		if err = cursor.Err(); err != nil {
			errChan <- errors.Trace(err)
			return
		}
		if len(events) > 0 {
			eventChan <- events
		}
		errChan <- nil
	}()
	return eventChan, errChan
}
