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

// DefaultKey is the single key of the default template: an empty ordered
// sequence every class can use as its own collection.
const DefaultKey = "objects"

// Template is a disposable set of default property values, keyed by name.
// A factory builds one per call; Ready copies it into the class and drops it.
type Template map[string]any

// Factory returns a fresh template.
type Factory func() (Template, error)

// SchemaFunc is a schema factory. super invokes the factory of the declaring
// type's ancestor (the default template at the root) and returns a fresh
// template, which the function may extend:
//
//	func(super class.Factory) (class.Template, error) {
//		t, err := super()
//		if err != nil {
//			return nil, err
//		}
//		return t.Extend(class.Template{"extinct": true}), nil
//	}
//
// super is bound to the type that declared the function, not to the type
// being initialized, so inherited factories never recurse into themselves.
//
// Every mutable value in the returned template must be built inside the
// call. The factory runs once per class, and only values it constructs
// fresh are private to that class.
type SchemaFunc func(super Factory) (Template, error)

// DefaultTemplate returns the template used when no type in a chain
// declares a schema.
func DefaultTemplate() Template {
	return Template{DefaultKey: []any{}}
}

// Extend returns a new template holding t's fields, added to or overridden
// by the fields of overrides. Neither input is modified.
func (t Template) Extend(overrides Template) Template {
	out := make(Template, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy of t.
func (t Template) Clone() Template {
	return t.Extend(nil)
}
