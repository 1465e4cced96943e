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

package apis

import (
	"reflect"

	"dirpx.dev/ready/class"
)

// Registry owns the class records of participating types, keyed by their
// normalized reflect.Type. Implementations must be safe for concurrent use.
type Registry interface {
	// Declare creates the class record for t with the given options.
	// Declaring the same type twice is an error.
	Declare(t reflect.Type, opts ...class.Option) (*class.Class, error)
	// Resolve returns the class record for t, creating it (and the records
	// of its ancestors) when t participates through embedding.
	Resolve(t reflect.Type) (*class.Class, error)
	// Lookup returns the class record for t if one exists. It never creates.
	Lookup(t reflect.Type) (c *class.Class, ok bool)
	// Adopt inserts an existing record, keeping its identity and state.
	// Used by builders to migrate records between registries.
	Adopt(e Entry) error
	// Entries returns a snapshot for diagnostics/docs, ordered by class name.
	Entries() []Entry
	// Count returns the number of class records.
	Count() int
	// Reset drops all class records.
	Reset()
}

// Entry is a single (type, class) association in a Registry snapshot.
type Entry struct {
	// Type is the normalized reflect.Type.
	Type reflect.Type
	// Class is the record owned by the registry.
	Class *class.Class
	// Declared is false for records created implicitly by Resolve.
	Declared bool
}
