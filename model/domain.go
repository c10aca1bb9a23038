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

package model

import (
	"fmt"
	"math"

	"github.com/juju/errors"
)

// Domain is the closed interval of valid rating values. It is shared by the
// Slope One model and its predictors and is immutable once created.
type Domain struct {
	minimum float64
	maximum float64
}

// NewDomain creates a rating domain [minimum, maximum].
func NewDomain(minimum, maximum float64) (*Domain, error) {
	if math.IsNaN(minimum) || math.IsNaN(maximum) {
		return nil, errors.NotValidf("rating domain with NaN bound")
	}
	if minimum > maximum {
		return nil, errors.NotValidf("rating domain [%v, %v]", minimum, maximum)
	}
	return &Domain{minimum: minimum, maximum: maximum}, nil
}

// MustNewDomain is like NewDomain but panics on invalid bounds.
func MustNewDomain(minimum, maximum float64) *Domain {
	d, err := NewDomain(minimum, maximum)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Domain) Minimum() float64 {
	return d.minimum
}

func (d *Domain) Maximum() float64 {
	return d.maximum
}

// Clamp returns value limited to [minimum, maximum].
func (d *Domain) Clamp(value float64) float64 {
	return math.Max(d.minimum, math.Min(d.maximum, value))
}

// Contains reports whether value lies in the domain.
func (d *Domain) Contains(value float64) bool {
	return value >= d.minimum && value <= d.maximum
}

func (d *Domain) String() string {
	return fmt.Sprintf("[%v, %v]", d.minimum, d.maximum)
}
