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

package builder

import (
	"log/slog"

	"dirpx.dev/ready/apis"
	"dirpx.dev/ready/registry"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided
// configuration. If a previous registry is provided, its class records are
// adopted as they are: same identity, same readiness, same own tables.
// Records that fail to migrate are logged and skipped.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry, logger *slog.Logger) apis.Registry {
	nreg := registry.New(cfg, logger)
	if prev == nil {
		return nreg
	}
	for _, e := range prev.Entries() {
		if err := nreg.Adopt(e); err != nil && logger != nil {
			logger.Warn("class record not migrated", "type", e.Type, "error", err)
		}
	}
	return nreg
}
