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

package class

import "fmt"

// Accessor is the name/storage pair of a property accessor.
type Accessor interface {
	// Name is the public property name.
	Name() string
	// Key is the template key the value is stored under.
	Key() string
}

// Objects accesses the collection of the default template.
var Objects = NewField[[]any](DefaultKey)

// Field is a typed accessor pair over one key of a class's table.
// Every method makes the class ready first, so a never-touched class
// reads its own default, never an ancestor's value.
type Field[V any] struct {
	name string
	key  string
}

// NewField returns an accessor whose public name is its storage key.
func NewField[V any](key string) Field[V] {
	return Field[V]{name: key, key: key}
}

// NewAccessor returns an accessor exposing the value stored under key as
// name. name and key must differ from every other schema key; see
// WithStrict.
func NewAccessor[V any](name, key string) Field[V] {
	return Field[V]{name: name, key: key}
}

// Name returns the public property name.
func (f Field[V]) Name() string { return f.name }

// Key returns the storage key.
func (f Field[V]) Key() string { return f.key }

// Get returns c's own value.
func (f Field[V]) Get(c *Class) (V, error) {
	var zero V
	raw, err := c.Get(f.key)
	if err != nil {
		return zero, err
	}
	return f.cast(c, raw)
}

// MustGet is Get that panics on error.
func (f Field[V]) MustGet(c *Class) V {
	v, err := f.Get(c)
	if err != nil {
		panic(err)
	}
	return v
}

// Set stores v in c's own table.
func (f Field[V]) Set(c *Class, v V) error {
	return c.Set(f.key, v)
}

// Update replaces c's own value with fn applied to it, atomically with
// respect to other accessors of c. A missing key is passed as the zero
// value. fn must not call back into c.
func (f Field[V]) Update(c *Class, fn func(V) V) error {
	return c.update(f.key, func(old any, ok bool) (any, error) {
		var cur V
		if ok {
			v, err := f.cast(c, old)
			if err != nil {
				return nil, err
			}
			cur = v
		}
		return fn(cur), nil
	})
}

func (f Field[V]) cast(c *Class, raw any) (V, error) {
	var zero V
	if raw == nil {
		return zero, nil
	}
	v, ok := raw.(V)
	if !ok {
		return zero, fmt.Errorf("%w: %s.%s is %T, want %T", ErrFieldType, c.name, f.key, raw, zero)
	}
	return v, nil
}
