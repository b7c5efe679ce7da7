/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"
	"strconv"

	"github.com/iancoleman/orderedmap"
)

// Record is an ordered set of field id -> value pairs for one section block.
// Key order is insertion order and is what the INI writer emits, so a record
// round-trips through JSON without reshuffling lines.
type Record struct {
	om *orderedmap.OrderedMap
}

func NewRecord() *Record {
	return &Record{om: orderedmap.New()}
}

// Set stores or overwrites a field. Setting an empty value keeps the key;
// the INI writer decides whether an empty value is emitted.
func (r *Record) Set(field, value string) {
	r.om.Set(field, value)
}

func (r *Record) Get(field string) (string, bool) {
	v, ok := r.om.Get(field)
	if !ok {
		return "", false
	}
	return coerce(v), true
}

// Value returns the field value or "" when absent.
func (r *Record) Value(field string) string {
	v, _ := r.Get(field)
	return v
}

func (r *Record) Has(field string) bool {
	_, ok := r.om.Get(field)
	return ok
}

func (r *Record) Delete(field string) {
	r.om.Delete(field)
}

// Fields returns the field ids in insertion order.
func (r *Record) Fields() []string {
	return r.om.Keys()
}

func (r *Record) Len() int {
	return len(r.om.Keys())
}

func (r *Record) Clone() *Record {
	c := NewRecord()
	for _, k := range r.om.Keys() {
		v, _ := r.om.Get(k)
		c.om.Set(k, coerce(v))
	}
	return c
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return r.om.MarshalJSON()
}

// UnmarshalJSON accepts values of any JSON scalar type for compatibility
// with project files written by hand; non-strings are coerced on read.
func (r *Record) UnmarshalJSON(data []byte) error {
	r.om = orderedmap.New()
	return r.om.UnmarshalJSON(data)
}

func coerce(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
