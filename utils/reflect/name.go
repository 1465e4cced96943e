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
	"path"
	"reflect"
	"strings"

	"dirpx.dev/ready/apis"
)

var namerType = reflect.TypeOf((*apis.Namer)(nil)).Elem()

// Name returns the class name of the named struct type t.
//
// If t (or *t) implements apis.Namer, its ClassName wins, unless the method
// is only promoted from an embedded type (a subclass never inherits its
// ancestor's name). Otherwise the name is "pkg.Type" with generic
// instantiation parameters stripped.
func Name(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if n, ok := className(t); ok {
		promoted := false
		for _, et := range Embedded(t) {
			if en, ok := className(et); ok && en == n {
				promoted = true
				break
			}
		}
		if !promoted {
			return n
		}
	}

	name := stripTypeParams(t.Name())
	if p := t.PkgPath(); p != "" {
		name = path.Base(p) + "." + name
	}
	return name
}

// className calls ClassName on the zero value of t or *t, if implemented.
// A method promoted through a nil embedded pointer panics on the zero value;
// that counts as not implemented.
func className(t reflect.Type) (name string, ok bool) {
	defer func() {
		if recover() != nil {
			name, ok = "", false
		}
	}()

	var v any
	switch {
	case t.Implements(namerType):
		v = reflect.Zero(t).Interface()
	case reflect.PointerTo(t).Implements(namerType):
		v = reflect.New(t).Interface()
	default:
		return "", false
	}
	n := v.(apis.Namer).ClassName()
	return n, n != ""
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
