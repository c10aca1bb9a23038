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

package baseline

import (
	"io"

	"github.com/gorse-io/slopeone/base/encoding"
	"github.com/juju/errors"
)

// Marshal writes the name of a predictor followed by its gob payload. A nil
// predictor is written as an empty name.
func Marshal(w io.Writer, p Predictor) error {
	var name string
	switch p.(type) {
	case nil:
		return encoding.WriteString(w, "")
	case *Constant:
		name = NameConstant
	case *GlobalMean:
		name = NameGlobalMean
	case *ItemMean:
		name = NameItemMean
	case *UserMean:
		name = NameUserMean
	case *ItemUserMean:
		name = NameItemUserMean
	default:
		return errors.NotSupportedf("baseline %T", p)
	}
	if err := encoding.WriteString(w, name); err != nil {
		return errors.Trace(err)
	}
	return encoding.WriteGob(w, p)
}

// Unmarshal reads a predictor written by Marshal. It returns nil for an
// empty name.
func Unmarshal(r io.Reader) (Predictor, error) {
	name, err := encoding.ReadString(r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var p Predictor
	switch name {
	case "":
		return nil, nil
	case NameConstant:
		p = new(Constant)
	case NameGlobalMean:
		p = new(GlobalMean)
	case NameItemMean:
		p = new(ItemMean)
	case NameUserMean:
		p = new(UserMean)
	case NameItemUserMean:
		p = new(ItemUserMean)
	default:
		return nil, errors.NotSupportedf("baseline %q", name)
	}
	if err = encoding.ReadGob(r, p); err != nil {
		return nil, errors.Trace(err)
	}
	return p, nil
}
