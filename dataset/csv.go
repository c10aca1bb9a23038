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
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gorse-io/slopeone/event"
	"github.com/juju/errors"
)

// LoadEventsFromCSV loads rating events from a CSV file. The file should be:
//
//	[optional header]
//	<userId 1> <sep> <itemId 1> <sep> <rating 1> [<sep> <timestamp 1>]
//	<userId 2> <sep> <itemId 2> <sep> <rating 2> [<sep> <timestamp 2>]
//	...
//
// For example, the `u.data` from MovieLens 100K is:
//
//	196\t242\t3\t881250949
//	186\t302\t3\t891717742
//	22\t377\t1\t878887116
//
// A missing timestamp is loaded as event.Unset.
func LoadEventsFromCSV(fileName, sep string, hasHeader bool) ([]event.Event, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	events, err := LoadEvents(file, sep, hasHeader)
	if err != nil {
		return nil, errors.Annotatef(err, "load %s", fileName)
	}
	return events, nil
}

// LoadEvents loads rating events in the format of LoadEventsFromCSV from a reader.
func LoadEvents(r io.Reader, sep string, hasHeader bool) ([]event.Event, error) {
	if sep == "" {
		return nil, errors.NotValidf("empty separator")
	}
	var (
		events  []event.Event
		lineErr error
	)
	err := readLines(bufio.NewScanner(r), sep, func(lineNumber int, fields []string) bool {
		if hasHeader && lineNumber == 0 {
			return true
		}
		// ignore empty lines
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			return true
		}
		e, err := parseRating(fields)
		if err != nil {
			lineErr = errors.Annotatef(err, "line %d", lineNumber+1)
			return false
		}
		events = append(events, e)
		return true
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if lineErr != nil {
		return nil, lineErr
	}
	return events, nil
}

func parseRating(fields []string) (*event.Rating, error) {
	if len(fields) < 3 {
		return nil, errors.NotValidf("%d fields", len(fields))
	}
	userId, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return nil, errors.NotValidf("user id %q", fields[0])
	}
	itemId, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return nil, errors.NotValidf("item id %q", fields[1])
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return nil, errors.NotValidf("rating %q", fields[2])
	}
	timestamp := event.Unset
	if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
		timestamp, err = strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
		if err != nil {
			return nil, errors.NotValidf("timestamp %q", fields[3])
		}
	}
	return event.NewRating(userId, itemId, value, timestamp), nil
}

// readLines parses fields of each line of a csv file. The separator may span
// several characters, as the `::` of MovieLens 1M.
func readLines(sc *bufio.Scanner, sep string, handler func(int, []string) bool) error {
	lineCount := 0               // line number of current position
	fields := make([]string, 0)  // fields for current line
	builder := strings.Builder{} // string builder for current field
	quoted := false              // whether current position in quote
	for sc.Scan() {
		line := sc.Text()
		// start of line
		if quoted {
			builder.WriteString("\r\n")
		}
		// parse line
		for i := 0; i < len(line); {
			if !quoted && strings.HasPrefix(line[i:], sep) {
				// end of field
				fields = append(fields, builder.String())
				builder.Reset()
				i += len(sep)
				continue
			}
			if line[i] == '"' {
				if quoted {
					if i+1 >= len(line) || line[i+1] != '"' {
						// end of quoted
						quoted = false
					} else {
						i++
						builder.WriteByte('"')
					}
				} else {
					// start of quoted
					quoted = true
				}
			} else {
				builder.WriteByte(line[i])
			}
			i++
		}
		// end of line
		if !quoted {
			fields = append(fields, builder.String())
			builder.Reset()
			if !handler(lineCount, fields) {
				return nil
			}
			fields = []string{}
		}
		lineCount++
	}
	return sc.Err()
}
