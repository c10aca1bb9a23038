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

package slopeone

import (
	"encoding/binary"
	"io"

	"github.com/gorse-io/slopeone/base/encoding"
	"github.com/gorse-io/slopeone/model"
	"github.com/gorse-io/slopeone/model/baseline"
	"github.com/juju/errors"
)

const (
	magic   = "slopeone"
	version = int32(1)
)

// MarshalModel writes a model in a binary format:
//
//	magic | version | domain | item count | pairs (a, b, count, deviation) | baseline
//
// Pairs are written column by column in ascending order.
func MarshalModel(w io.Writer, m *Model) error {
	if err := encoding.WriteString(w, magic); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, version); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteSlice(w, []float64{m.domain.Minimum(), m.domain.Maximum()}); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, int64(m.items)); err != nil {
		return errors.Trace(err)
	}
	as := make([]int64, 0, len(m.pairs))
	bs := make([]int64, 0, len(m.pairs))
	counts := make([]int64, 0, len(m.pairs))
	deviations := make([]float64, 0, len(m.pairs))
	m.ForEachPair(func(a, b int64, coratings int, deviation float64) {
		as = append(as, a)
		bs = append(bs, b)
		counts = append(counts, int64(coratings))
		deviations = append(deviations, deviation)
	})
	for _, column := range [][]int64{as, bs, counts} {
		if err := encoding.WriteSlice(w, column); err != nil {
			return errors.Trace(err)
		}
	}
	if err := encoding.WriteSlice(w, deviations); err != nil {
		return errors.Trace(err)
	}
	return baseline.Marshal(w, m.baseline)
}

// UnmarshalModel reads a model written by MarshalModel.
func UnmarshalModel(r io.Reader) (*Model, error) {
	header, err := encoding.ReadString(r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if header != magic {
		return nil, errors.NotValidf("model header %q", header)
	}
	var v int32
	if err = binary.Read(r, binary.LittleEndian, &v); err != nil {
		return nil, errors.Trace(err)
	}
	if v != version {
		return nil, errors.NotSupportedf("model version %d", v)
	}
	bounds, err := encoding.ReadSlice[float64](r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(bounds) != 2 {
		return nil, errors.NotValidf("domain with %d bounds", len(bounds))
	}
	domain, err := model.NewDomain(bounds[0], bounds[1])
	if err != nil {
		return nil, errors.Trace(err)
	}
	var items int64
	if err = binary.Read(r, binary.LittleEndian, &items); err != nil {
		return nil, errors.Trace(err)
	}
	columns := make([][]int64, 3)
	for i := range columns {
		if columns[i], err = encoding.ReadSlice[int64](r); err != nil {
			return nil, errors.Trace(err)
		}
	}
	deviations, err := encoding.ReadSlice[float64](r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	as, bs, counts := columns[0], columns[1], columns[2]
	if len(bs) != len(as) || len(counts) != len(as) || len(deviations) != len(as) {
		return nil, errors.NotValidf("pair columns of different lengths")
	}
	m := &Model{
		domain: domain,
		pairs:  make(map[pair]stat, len(as)),
		items:  int(items),
	}
	for i := range as {
		if as[i] >= bs[i] || counts[i] <= 0 {
			return nil, errors.NotValidf("pair (%d, %d) with %d co-ratings", as[i], bs[i], counts[i])
		}
		m.pairs[pair{a: as[i], b: bs[i]}] = stat{count: int(counts[i]), deviation: deviations[i]}
	}
	if m.baseline, err = baseline.Unmarshal(r); err != nil {
		return nil, errors.Trace(err)
	}
	return m, nil
}
