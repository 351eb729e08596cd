// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errs defines the error kinds surfaced across the match pipeline,
// per the error handling design: index construction errors are fatal to the
// host, an input over the configured token cap is returned to the caller as
// a CapacityLimit, and everything else downstream is swallowed into empty
// results.
package errs

import "fmt"

// IndexBuildError reports a problem encountered while building a Rule Index:
// malformed rule frontmatter, an unknown operator in a license expression, or
// a reference to an undefined symbol.
type IndexBuildError struct {
	Rule   string // rule identifier, or "" if not yet known
	Reason string
}

func (e *IndexBuildError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("index build: %s", e.Reason)
	}
	return fmt.Sprintf("index build: rule %q: %s", e.Rule, e.Reason)
}

// CapacityLimit reports that an input exceeded the configured token cap.
type CapacityLimit struct {
	Limit, Got int
}

func (e *CapacityLimit) Error() string {
	return fmt.Sprintf("input exceeds token cap: got %d tokens, limit %d", e.Got, e.Limit)
}

// InvariantViolation is a programmer-visible bug sentinel: it marks an
// unreachable state in the match pipeline. It is recovered at the engine
// boundary and never escapes to a caller; it is only ever seen in logs.
type InvariantViolation struct {
	Where string
	Msg   string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Where, e.Msg)
}
