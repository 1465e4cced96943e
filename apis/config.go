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

// Config carries read-only knobs that influence how classes are declared
// and initialized. It is passed by value and should be treated as immutable
// by implementations.
//
// Config applies to classes created after it is published; class records
// that already exist keep the knobs they were created with.
type Config struct {
	// Strict enables the development-mode naming collision check: a class
	// fails to become ready when a schema key equals the public name of an
	// accessor whose storage key differs.
	Strict bool

	// MaxUnwrap limits pointer unwrapping depth when a reflect.Type is
	// normalized to its named struct type.
	// Acts as a safety guard against pathological nesting.
	MaxUnwrap int
}
