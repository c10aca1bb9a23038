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
	"strings"
	"time"

	"github.com/gorse-io/slopeone/base/log"
	"github.com/gorse-io/slopeone/dataset"
	"github.com/gorse-io/slopeone/event"
	"github.com/gorse-io/slopeone/storage"
	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
	"moul.io/zapgorm2"
)

var ErrNoDatabase = errors.NotAssignedf("database")

const (
	KindRating = "rating"
	KindUnrate = "unrate"
	KindPlus   = "plus"
)

// EventRecord is the stored form of an event. An event is identified by its
// user, item, timestamp and kind.
type EventRecord struct {
	UserId    int64   `gorm:"column:user_id;primaryKey;autoIncrement:false" bson:"user_id" json:"user_id"`
	ItemId    int64   `gorm:"column:item_id;primaryKey;autoIncrement:false" bson:"item_id" json:"item_id"`
	Timestamp int64   `gorm:"column:time_stamp;primaryKey;autoIncrement:false" bson:"time_stamp" json:"time_stamp"`
	Kind      string  `gorm:"column:kind;type:varchar(16);primaryKey" bson:"kind" json:"kind"`
	Value     float64 `gorm:"column:value;not null;default:0" bson:"value" json:"value"`
	Count     int     `gorm:"column:count;not null;default:0" bson:"count" json:"count"`
}

// NewEventRecord converts an event to its stored form.
func NewEventRecord(e event.Event) (EventRecord, error) {
	record := EventRecord{
		UserId:    e.UserId(),
		ItemId:    e.ItemId(),
		Timestamp: e.Timestamp(),
	}
	switch e := e.(type) {
	case *event.Rating:
		if e.HasValue() {
			record.Kind = KindRating
			record.Value = e.Value()
		} else {
			record.Kind = KindUnrate
		}
	case *event.Plus:
		record.Kind = KindPlus
		record.Count = e.Count()
	default:
		return EventRecord{}, errors.NotSupportedf("event %T", e)
	}
	return record, nil
}

// Event converts the record back to an event.
func (r EventRecord) Event() (event.Event, error) {
	switch r.Kind {
	case KindRating:
		return event.NewRating(r.UserId, r.ItemId, r.Value, r.Timestamp), nil
	case KindUnrate:
		return event.Unrate(r.UserId, r.ItemId, r.Timestamp), nil
	case KindPlus:
		return event.NewMultiPlusAt(r.UserId, r.ItemId, r.Count, r.Timestamp), nil
	}
	return nil, errors.NotValidf("event kind %q", r.Kind)
}

func (r EventRecord) key() lo.Tuple4[int64, int64, int64, string] {
	return lo.T4(r.UserId, r.ItemId, r.Timestamp, r.Kind)
}

// newEventRecords converts events to records. Records with the same key are
// merged and the last one wins.
func newEventRecords(events []event.Event) ([]EventRecord, error) {
	records := make([]EventRecord, 0, len(events))
	index := make(map[lo.Tuple4[int64, int64, int64, string]]int, len(events))
	for _, e := range events {
		record, err := NewEventRecord(e)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if i, exist := index[record.key()]; exist {
			records[i] = record
		} else {
			index[record.key()] = len(records)
			records = append(records, record)
		}
	}
	return records, nil
}

func recordsToEvents(records []EventRecord) ([]event.Event, error) {
	events := make([]event.Event, 0, len(records))
	for _, record := range records {
		e, err := record.Event()
		if err != nil {
			return nil, errors.Trace(err)
		}
		events = append(events, e)
	}
	return events, nil
}

type Database interface {
	Init() error
	Ping(ctx context.Context) error
	Close() error
	Purge() error
	// BatchInsertEvents inserts events. An event with the key of a stored
	// event replaces it.
	BatchInsertEvents(ctx context.Context, events []event.Event) error
	// GetUserEvents returns events of a user ordered by timestamp.
	GetUserEvents(ctx context.Context, userId int64) ([]event.Event, error)
	// GetEventStream streams all events in batches, ordered by user.
	GetEventStream(ctx context.Context, batchSize int) (chan []event.Event, chan error)
}

// GetUserHistory loads the history of a user.
func GetUserHistory(ctx context.Context, db Database, userId int64) (*event.UserHistory, error) {
	events, err := db.GetUserEvents(ctx, userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return event.NewUserHistory(userId, events)
}

// LoadRatings streams all events and summarizes them into a rating corpus.
func LoadRatings(ctx context.Context, db Database, batchSize int, summarizer event.Summarizer) (*dataset.Ratings, error) {
	var events []event.Event
	eventChan, errChan := db.GetEventStream(ctx, batchSize)
	for batch := range eventChan {
		events = append(events, batch...)
	}
	if err := <-errChan; err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("load events from database", zap.Int("n_events", len(events)))
	return dataset.NewRatings(event.GroupByUser(events), summarizer)
}

// Open a connection to a database.
func Open(path, tablePrefix string) (Database, error) {
	var err error
	if strings.HasPrefix(path, storage.MySQLPrefix) {
		name := path[len(storage.MySQLPrefix):]
		// probe isolation variable name
		isolationVarName, err := storage.ProbeMySQLIsolationVariableName(name)
		if err != nil {
			return nil, errors.Trace(err)
		}
		// append parameters
		if name, err = storage.AppendMySQLParams(name, map[string]string{
			"sql_mode":       "'ONLY_FULL_GROUP_BY,STRICT_TRANS_TABLES,ERROR_FOR_DIVISION_BY_ZERO,NO_ENGINE_SUBSTITUTION'",
			isolationVarName: "'READ-UNCOMMITTED'",
			"parseTime":      "true",
		}); err != nil {
			return nil, errors.Trace(err)
		}
		// connect to database
		database := new(SQLDatabase)
		database.driver = MySQL
		database.TablePrefix = storage.TablePrefix(tablePrefix)
		if database.client, err = sql.Open("mysql", name); err != nil {
			return nil, errors.Trace(err)
		}
		database.gormDB, err = gorm.Open(mysql.New(mysql.Config{Conn: database.client}), storage.NewGORMConfig(tablePrefix))
		if err != nil {
			return nil, errors.Trace(err)
		}
		return database, nil
	} else if strings.HasPrefix(path, storage.PostgresPrefix) || strings.HasPrefix(path, storage.PostgreSQLPrefix) {
		database := new(SQLDatabase)
		database.driver = Postgres
		database.TablePrefix = storage.TablePrefix(tablePrefix)
		if database.client, err = sql.Open("postgres", path); err != nil {
			return nil, errors.Trace(err)
		}
		database.gormDB, err = gorm.Open(postgres.New(postgres.Config{Conn: database.client}), storage.NewGORMConfig(tablePrefix))
		if err != nil {
			return nil, errors.Trace(err)
		}
		return database, nil
	} else if strings.HasPrefix(path, storage.MongoPrefix) || strings.HasPrefix(path, storage.MongoSrvPrefix) {
		// connect to database
		database := new(MongoDB)
		if database.client, err = mongo.Connect(context.Background(), options.Client().ApplyURI(path)); err != nil {
			return nil, errors.Trace(err)
		}
		// parse DSN and extract database name
		if cs, err := connstring.ParseAndValidate(path); err != nil {
			return nil, errors.Trace(err)
		} else {
			database.dbName = cs.Database
			database.TablePrefix = storage.TablePrefix(tablePrefix)
		}
		return database, nil
	} else if strings.HasPrefix(path, storage.SQLitePrefix) {
		// append parameters
		if path, err = storage.AppendURLParams(path, []lo.Tuple2[string, string]{
			{"_pragma", "busy_timeout(10000)"},
			{"_pragma", "journal_mode(wal)"},
		}); err != nil {
			return nil, errors.Trace(err)
		}
		// connect to database
		name := path[len(storage.SQLitePrefix):]
		database := new(SQLDatabase)
		database.driver = SQLite
		database.TablePrefix = storage.TablePrefix(tablePrefix)
		if database.client, err = sql.Open("sqlite", name); err != nil {
			return nil, errors.Trace(err)
		}
		gormConfig := storage.NewGORMConfig(tablePrefix)
		gormConfig.Logger = &zapgorm2.Logger{
			ZapLogger:                 log.Logger(),
			LogLevel:                  logger.Warn,
			SlowThreshold:             10 * time.Second,
			SkipCallerLookup:          false,
			IgnoreRecordNotFoundError: false,
		}
		database.gormDB, err = gorm.Open(sqlite.Dialector{Conn: database.client}, gormConfig)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return database, nil
	} else if strings.HasPrefix(path, storage.RedisPrefix) || strings.HasPrefix(path, storage.RedissPrefix) {
		opt, err := redis.ParseURL(path)
		if err != nil {
			return nil, errors.Trace(err)
		}
		database := new(Redis)
		database.client = redis.NewClient(opt)
		database.TablePrefix = storage.TablePrefix(tablePrefix)
		return database, nil
	}
	return nil, errors.Errorf("Unknown database: %s", path)
}
