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

// Package sparse provides sparse vectors keyed by item ID. Keys are kept in
// ascending order, so iteration is deterministic, and a key that was never set
// is distinct from a key set to zero.
package sparse

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/juju/errors"
)

// Vector is a read-only sparse vector.
type Vector struct {
	keys   []int64
	values []float64
}

// Empty returns a vector without entries.
func Empty() *Vector {
	return &Vector{}
}

// New creates a vector from parallel slices of keys and values. Keys may come in
// any order but must be unique.
func New(keys []int64, values []float64) (*Vector, error) {
	if len(keys) != len(values) {
		return nil, errors.NotValidf("%d keys with %d values", len(keys), len(values))
	}
	v := &Vector{
		keys:   slices.Clone(keys),
		values: slices.Clone(values),
	}
	v.sort()
	for i := 1; i < len(v.keys); i++ {
		if v.keys[i] == v.keys[i-1] {
			return nil, errors.NotValidf("duplicate key %d", v.keys[i])
		}
	}
	return v, nil
}

// FromMap creates a vector from a map.
func FromMap(m map[int64]float64) *Vector {
	v := &Vector{
		keys:   make([]int64, 0, len(m)),
		values: make([]float64, 0, len(m)),
	}
	for key := range m {
		v.keys = append(v.keys, key)
	}
	slices.Sort(v.keys)
	for _, key := range v.keys {
		v.values = append(v.values, m[key])
	}
	return v
}

func (v *Vector) sort() {
	if slices.IsSorted(v.keys) {
		return
	}
	order := make([]int, len(v.keys))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Compare(v.keys[a], v.keys[b])
	})
	keys := make([]int64, len(order))
	values := make([]float64, len(order))
	for i, j := range order {
		keys[i] = v.keys[j]
		values[i] = v.values[j]
	}
	v.keys, v.values = keys, values
}

func (v *Vector) find(key int64) (int, bool) {
	return slices.BinarySearch(v.keys, key)
}

// Len returns the number of entries.
func (v *Vector) Len() int {
	return len(v.keys)
}

// IsEmpty returns true if no key is set.
func (v *Vector) IsEmpty() bool {
	return len(v.keys) == 0
}

// ContainsKey returns true if key has been set.
func (v *Vector) ContainsKey(key int64) bool {
	_, found := v.find(key)
	return found
}

// Get returns the value of key. It panics if key is absent, callers should check
// ContainsKey first or use Lookup.
func (v *Vector) Get(key int64) float64 {
	i, found := v.find(key)
	if !found {
		panic(fmt.Sprintf("sparse: key %d is not in vector", key))
	}
	return v.values[i]
}

// Lookup returns the value of key and whether it is present.
func (v *Vector) Lookup(key int64) (float64, bool) {
	i, found := v.find(key)
	if !found {
		return 0, false
	}
	return v.values[i], true
}

// Keys returns a copy of the keys in ascending order.
func (v *Vector) Keys() []int64 {
	return slices.Clone(v.keys)
}

// Values returns a copy of the values in key order.
func (v *Vector) Values() []float64 {
	return slices.Clone(v.values)
}

// ForEach iterates entries in ascending key order.
func (v *Vector) ForEach(f func(key int64, value float64)) {
	for i := range v.keys {
		f(v.keys[i], v.values[i])
	}
}

// Sum returns the sum of values.
func (v *Vector) Sum() float64 {
	sum := 0.0
	for _, value := range v.values {
		sum += value
	}
	return sum
}

// Mean returns the mean of values, or zero for an empty vector.
func (v *Vector) Mean() float64 {
	if len(v.values) == 0 {
		return 0
	}
	return v.Sum() / float64(len(v.values))
}

// ToMap converts the vector into a map.
func (v *Vector) ToMap() map[int64]float64 {
	m := make(map[int64]float64, len(v.keys))
	v.ForEach(func(key int64, value float64) {
		m[key] = value
	})
	return m
}

// Mutable returns a mutable copy of the vector.
func (v *Vector) Mutable() *MutableVector {
	return &MutableVector{Vector: Vector{
		keys:   slices.Clone(v.keys),
		values: slices.Clone(v.values),
	}}
}

// MutableVector is a sparse vector supporting point updates. It must not be
// mutated concurrently.
type MutableVector struct {
	Vector
}

// NewMutable creates an empty mutable vector.
func NewMutable() *MutableVector {
	return &MutableVector{}
}

// Set inserts or overwrites the value of key.
func (v *MutableVector) Set(key int64, value float64) {
	i, found := v.find(key)
	if found {
		v.values[i] = value
		return
	}
	v.keys = slices.Insert(v.keys, i, key)
	v.values = slices.Insert(v.values, i, value)
}

// SetAll merges entries of other into this vector. Values of other overwrite
// values of existing keys.
func (v *MutableVector) SetAll(other *Vector) {
	if other == nil || other.IsEmpty() {
		return
	}
	keys := make([]int64, 0, len(v.keys)+len(other.keys))
	values := make([]float64, 0, len(v.keys)+len(other.keys))
	i, j := 0, 0
	for i < len(v.keys) || j < len(other.keys) {
		switch {
		case j == len(other.keys) || (i < len(v.keys) && v.keys[i] < other.keys[j]):
			keys = append(keys, v.keys[i])
			values = append(values, v.values[i])
			i++
		case i == len(v.keys) || v.keys[i] > other.keys[j]:
			keys = append(keys, other.keys[j])
			values = append(values, other.values[j])
			j++
		default:
			keys = append(keys, other.keys[j])
			values = append(values, other.values[j])
			i++
			j++
		}
	}
	v.keys, v.values = keys, values
}

// Delete removes key. It returns false if key is absent.
func (v *MutableVector) Delete(key int64) bool {
	i, found := v.find(key)
	if !found {
		return false
	}
	v.keys = slices.Delete(v.keys, i, i+1)
	v.values = slices.Delete(v.values, i, i+1)
	return true
}

// Freeze returns a read-only copy of the vector.
func (v *MutableVector) Freeze() *Vector {
	return &Vector{
		keys:   slices.Clone(v.keys),
		values: slices.Clone(v.values),
	}
}
