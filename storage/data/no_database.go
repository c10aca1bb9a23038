// Copyright 2020 gorse Project Authors
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

	"github.com/gorse-io/slopeone/event"
)

// NoDatabase means that no database is configured. Every operation fails with ErrNoDatabase.
type NoDatabase struct{}

func (NoDatabase) Init() error {
	return ErrNoDatabase
}

func (NoDatabase) Ping(context.Context) error {
	return ErrNoDatabase
}

func (NoDatabase) Close() error {
	return ErrNoDatabase
}

func (NoDatabase) Purge() error {
	return ErrNoDatabase
}

func (NoDatabase) BatchInsertEvents(_ context.Context, _ []event.Event) error {
	return ErrNoDatabase
}

func (NoDatabase) GetUserEvents(_ context.Context, _ int64) ([]event.Event, error) {
	return nil, ErrNoDatabase
}

func (NoDatabase) GetEventStream(_ context.Context, _ int) (chan []event.Event, chan error) {
	eventChan := make(chan []event.Event)
	errChan := make(chan error, 1)
	close(eventChan)
	errChan <- ErrNoDatabase
	close(errChan)
	return eventChan, errChan
}
