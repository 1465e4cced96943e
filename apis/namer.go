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

// Namer lets a participating type choose the name its class record reports
// in logs, errors and Entries.
//
// Namer is a type-level contract: ClassName describes the kind, not a
// particular instance. It is checked on both T and *T, and it is called on
// the zero value, so it must not depend on instance state.
//
//	type Cat struct{ ready.Base }
//
//	func (Cat) ClassName() string { return "zoo.cat" }
//
// Types that do not implement Namer are named "pkg.Type", with generic
// instantiation parameters stripped.
type Namer interface {
	// ClassName returns the canonical, non-empty name for the type.
	ClassName() string
}
