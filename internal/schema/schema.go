/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package schema is the static catalogue of sections and fields that make up
// a mod descriptor. It is pure declarative metadata: the registry is closed
// and baked in at build time, so an unknown section id is a programming error
// and lookups panic rather than return an error.
package schema

import "fmt"

// FieldType enumerates how a field value is entered and rendered.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeFloat   FieldType = "float"
	TypePrice   FieldType = "price"
	TypeLogic   FieldType = "logic"
	TypeEnum    FieldType = "enum"
	TypeFile    FieldType = "file"
	TypeSound   FieldType = "sound"
)

// Field describes one typed field within a section.
// Options is present iff Type == TypeEnum.
type Field struct {
	ID          string
	Label       string
	Type        FieldType
	Description string
	Example     string
	Options     []string
	Default     string
}

// Section describes an ordered group of fields. Singular sections appear
// exactly once per unit; multi sections appear zero or more times as a list.
type Section struct {
	ID          string
	Title       string
	Description string
	Fields      []Field
	Multi       bool
}

// Field returns the field descriptor for id, if the section defines it.
func (s Section) Field(id string) (Field, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// HasField reports whether the section defines a field with the given id.
func (s Section) HasField(id string) bool {
	_, ok := s.Field(id)
	return ok
}

// ModInfo returns the manifest section (mod-info.txt).
func ModInfo() Section { return modInfoSection }

// Singular returns the ordered singular unit sections (core..ai).
// Callers must not mutate the returned slice.
func Singular() []Section { return singularSections }

// Multi returns the ordered multi unit sections (turret..decal).
// Callers must not mutate the returned slice.
func Multi() []Section { return multiSections }

// ByID returns the section descriptor for id. The id must be one of the
// closed set (mod_info, a singular section, or a multi section); anything
// else is a bug in the caller and panics.
func ByID(id string) Section {
	if id == modInfoSection.ID {
		return modInfoSection
	}
	for _, s := range singularSections {
		if s.ID == id {
			return s
		}
	}
	for _, s := range multiSections {
		if s.ID == id {
			return s
		}
	}
	panic(fmt.Sprintf("schema: unknown section id %q", id))
}

// IsMulti reports whether id names a multi section. Panics on unknown ids.
func IsMulti(id string) bool { return ByID(id).Multi }
