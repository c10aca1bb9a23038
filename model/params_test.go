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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_Copy(t *testing.T) {
	// Create parameters
	a := Params{
		Damping:  1.0,
		Weighted: true,
	}
	// Create copy
	b := a.Copy()
	b[Damping] = 2.0
	b[Weighted] = false
	// Check original parameters
	assert.Equal(t, 1.0, a.GetFloat64(Damping, -1))
	assert.True(t, a.GetBool(Weighted, false))
	// Check copy parameters
	assert.Equal(t, 2.0, b.GetFloat64(Damping, -1))
	assert.False(t, b.GetBool(Weighted, true))
}

func TestParams_GetFloat64(t *testing.T) {
	p := Params{}
	// Empty case
	assert.Equal(t, 0.1, p.GetFloat64(Damping, 0.1))
	// Normal case
	p[Damping] = 1.0
	assert.Equal(t, 1.0, p.GetFloat64(Damping, 0.1))
	// Wrong type case
	p[Damping] = 1
	assert.Equal(t, 1.0, p.GetFloat64(Damping, 0.1))
	p[Damping] = "hello"
	assert.Equal(t, 0.1, p.GetFloat64(Damping, 0.1))
}

func TestParams_GetInt(t *testing.T) {
	p := Params{}
	// Empty case
	assert.Equal(t, -1, p.GetInt(Damping, -1))
	// Normal case
	p[Damping] = 0
	assert.Equal(t, 0, p.GetInt(Damping, -1))
	// Wrong type case
	p[Damping] = "hello"
	assert.Equal(t, -1, p.GetInt(Damping, -1))
}

func TestParams_GetBool(t *testing.T) {
	p := Params{}
	// Empty case
	assert.True(t, p.GetBool(Weighted, true))
	// Normal case
	p[Weighted] = false
	assert.False(t, p.GetBool(Weighted, true))
	// Wrong type case
	p[Weighted] = 1
	assert.True(t, p.GetBool(Weighted, true))
}

func TestParams_Overwrite(t *testing.T) {
	a := Params{Damping: 1.0}
	b := a.Overwrite(Params{Damping: 2.0, Weighted: true})
	assert.Equal(t, Params{Damping: 1.0}, a)
	assert.Equal(t, Params{Damping: 2.0, Weighted: true}, b)
	assert.JSONEq(t, `{"Damping":2,"Weighted":true}`, b.ToString())
}
