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
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/gorse-io/slopeone/event"
	"github.com/gorse-io/slopeone/storage"
	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"
)

const (
	keyUsers     = "users"   // set of users with events
	prefixEvents = "events/" // prefix for events of a user
)

// Redis stores events of each user in a hash keyed by item, timestamp and kind.
type Redis struct {
	storage.TablePrefix
	client *redis.Client
}

func (r *Redis) usersKey() string {
	return r.Key(keyUsers)
}

func (r *Redis) eventsKey(userId int64) string {
	return r.Key(prefixEvents + strconv.FormatInt(userId, 10))
}

func eventField(record EventRecord) string {
	return fmt.Sprintf("%d/%d/%s", record.ItemId, record.Timestamp, record.Kind)
}

// Init does nothing.
func (r *Redis) Init() error {
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Purge deletes all events.
func (r *Redis) Purge() error {
	ctx := context.Background()
	var (
		cursor uint64
		keys   []string
		err    error
	)
	for {
		keys, cursor, err = r.client.Scan(ctx, cursor, r.Key(prefixEvents)+"*", 0).Result()
		if err != nil {
			return errors.Trace(err)
		}
		if len(keys) > 0 {
			if err = r.client.Del(ctx, keys...).Err(); err != nil {
				return errors.Trace(err)
			}
		}
		if cursor == 0 {
			break
		}
	}
	return errors.Trace(r.client.Del(ctx, r.usersKey()).Err())
}

// BatchInsertEvents writes events into Redis.
func (r *Redis) BatchInsertEvents(ctx context.Context, events []event.Event) error {
	defer observeSince(BatchInsertEventsSeconds, time.Now())
	if len(events) == 0 {
		return nil
	}
	records, err := newEventRecords(events)
	if err != nil {
		return errors.Trace(err)
	}
	pipe := r.client.Pipeline()
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return errors.Trace(err)
		}
		pipe.HSet(ctx, r.eventsKey(record.UserId), eventField(record), data)
		pipe.SAdd(ctx, r.usersKey(), record.UserId)
	}
	_, err = pipe.Exec(ctx)
	return errors.Trace(err)
}

func (r *Redis) getUserRecords(ctx context.Context, userId int64) ([]EventRecord, error) {
	values, err := r.client.HGetAll(ctx, r.eventsKey(userId)).Result()
	if err != nil {
		return nil, errors.Trace(err)
	}
	records := make([]EventRecord, 0, len(values))
	for _, value := range values {
		var record EventRecord
		if err = json.Unmarshal([]byte(value), &record); err != nil {
			return nil, errors.Trace(err)
		}
		records = append(records, record)
	}
	slices.SortFunc(records, func(a, b EventRecord) int {
		return cmp.Or(
			cmp.Compare(a.Timestamp, b.Timestamp),
			cmp.Compare(a.ItemId, b.ItemId),
			cmp.Compare(a.Kind, b.Kind))
	})
	return records, nil
}

// GetUserEvents returns events of a user ordered by timestamp.
func (r *Redis) GetUserEvents(ctx context.Context, userId int64) ([]event.Event, error) {
	defer observeSince(GetUserEventsSeconds, time.Now())
	records, err := r.getUserRecords(ctx, userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return recordsToEvents(records)
}

// GetEventStream streams events ordered by user and timestamp.
func (r *Redis) GetEventStream(ctx context.Context, batchSize int) (chan []event.Event, chan error) {
	batchSize = max(batchSize, 1)
	eventChan := make(chan []event.Event, bufSize)
	errChan := make(chan error, 1)
	go func() {
		defer close(eventChan)
		defer close(errChan)
		defer observeSince(GetEventStreamSeconds, time.Now())
		members, err := r.client.SMembers(ctx, r.usersKey()).Result()
		if err != nil {
			errChan <- errors.Trace(err)
			return
		}
		userIds := make([]int64, 0, len(members))
		for _, member := range members {
			userId, err := strconv.ParseInt(member, 10, 64)
			if err != nil {
				errChan <- errors.Trace(err)
				return
			}
			userIds = append(userIds, userId)
		}
		slices.Sort(userIds)
		events := make([]event.Event, 0, batchSize)
		for _, userId := range userIds {
			records, err := r.getUserRecords(ctx, userId)
			if err != nil {
				errChan <- errors.Trace(err)
				return
			}
			for _, record := range records {
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
		}
		if len(events) > 0 {
			eventChan <- events
		}
		errChan <- nil
	}()
	return eventChan, errChan
}
