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
	"database/sql"
	"fmt"
	"time"

	"github.com/gorse-io/slopeone/event"
	"github.com/gorse-io/slopeone/storage"
	"github.com/juju/errors"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const bufSize = 1

type SQLDriver int

const (
	MySQL SQLDriver = iota
	Postgres
	SQLite
)

// SQLDatabase stores events in MySQL, PostgreSQL or SQLite.
type SQLDatabase struct {
	storage.TablePrefix
	gormDB *gorm.DB
	client *sql.DB
	driver SQLDriver
}

// Init creates the events table.
func (d *SQLDatabase) Init() error {
	switch d.driver {
	case MySQL:
		if err := d.gormDB.Set("gorm:table_options", "ENGINE=InnoDB").AutoMigrate(&EventRecord{}); err != nil {
			return errors.Trace(err)
		}
	case Postgres, SQLite:
		if err := d.gormDB.AutoMigrate(&EventRecord{}); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func (d *SQLDatabase) Ping(ctx context.Context) error {
	return d.client.PingContext(ctx)
}

// Close the connection.
func (d *SQLDatabase) Close() error {
	return d.client.Close()
}

// Purge deletes all events.
func (d *SQLDatabase) Purge() error {
	if err := d.gormDB.Exec(fmt.Sprintf("DELETE FROM %s", d.EventsTable())).Error; err != nil {
		return errors.Trace(err)
	}
	return nil
}

// BatchInsertEvents upserts events by user, item, timestamp and kind.
func (d *SQLDatabase) BatchInsertEvents(ctx context.Context, events []event.Event) error {
	defer observeSince(BatchInsertEventsSeconds, time.Now())
	// skip empty list
	if len(events) == 0 {
		return nil
	}
	records, err := newEventRecords(events)
	if err != nil {
		return errors.Trace(err)
	}
	err = d.gormDB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}, {Name: "time_stamp"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "count"}),
	}).Create(&records).Error
	return errors.Trace(err)
}

// GetUserEvents returns events of a user ordered by timestamp.
func (d *SQLDatabase) GetUserEvents(ctx context.Context, userId int64) ([]event.Event, error) {
	defer observeSince(GetUserEventsSeconds, time.Now())
	var records []EventRecord
	if err := d.gormDB.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("time_stamp, item_id, kind").
		Find(&records).Error; err != nil {
		return nil, errors.Trace(err)
	}
	return recordsToEvents(records)
}

// GetEventStream streams events ordered by user and timestamp.
func (d *SQLDatabase) GetEventStream(ctx context.Context, batchSize int) (chan []event.Event, chan error) {
	batchSize = max(batchSize, 1)
	eventChan := make(chan []event.Event, bufSize)
	errChan := make(chan error, 1)
	go func() {
		defer close(eventChan)
		defer close(errChan)
		defer observeSince(GetEventStreamSeconds, time.Now())
		// send query
		result, err := d.gormDB.WithContext(ctx).
			Model(&EventRecord{}).
			Order("user_id, time_stamp, item_id, kind").
			Rows()
		if err != nil {
			errChan <- errors.Trace(err)
			return
		}
		defer result.Close()
		// fetch result
		events := make([]event.Event, 0, batchSize)
		for result.Next() {
			var record EventRecord
			if err = d.gormDB.ScanRows(result, &record); err != nil {
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
		if err = result.Err(); err != nil {
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
