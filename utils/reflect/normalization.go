/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/ready/apis"
	"dirpx.dev/ready/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping
	// pointers) is not a named type (e.g., anonymous struct, func, interface{}).
	ErrReflectTypeNotNamed = errors.New("reflect: type is not named")
	// ErrReflectNotStruct indicates that the named type is not a struct.
	// Only struct types can take part in a class hierarchy.
	ErrReflectNotStruct = errors.New("reflect: type is not a struct")
)

// Normalize unwraps pointers according to cfg.MaxUnwrap and returns the
// named struct type underneath, or an error if there is none.
//
// Unwrapping policy:
//   - ptr -> Elem()
//   - named struct -> returned as is
//   - named non-struct -> ErrReflectNotStruct
//   - anything else (including pointers left after MaxUnwrap) -> ErrReflectTypeNotNamed
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	for i := 0; i < maxUnwrap && t.Kind() == reflect.Ptr; i++ {
		t = t.Elem()
	}

	if t.Kind() == reflect.Ptr || t.Name() == "" {
		return nil, ErrReflectTypeNotNamed
	}
	if t.Kind() != reflect.Struct {
		return nil, ErrReflectNotStruct
	}
	return t, nil
}

// Embedded returns the struct types embedded (as anonymous fields) in t, in
// declaration order. Embedded pointers count as their element type.
// Non-struct embeddings are skipped. t must be a struct type.
func Embedded(t reflect.Type) []reflect.Type {
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var out []reflect.Type
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			out = append(out, ft)
		}
	}
	return out
}
