// Copyright 2021 Dolthub, Inc.
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

package datalog

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrCompilationFailed is returned when the error report contains
	// error-severity diagnostics after analysis.
	ErrCompilationFailed = errors.NewKind("compilation failed with %d error(s)")

	// ErrVariableNotBound is returned when lowering meets a variable with
	// no binding point; the grounding check should have rejected the
	// clause earlier.
	ErrVariableNotBound = errors.NewKind("variable %s has no binding point")

	// ErrRecordNotBound is returned when lowering meets a record init with
	// no definition point.
	ErrRecordNotBound = errors.NewKind("record %s has no definition point")

	// ErrAggregatorNotIndexed is returned when lowering meets an
	// aggregator that was not assigned a level.
	ErrAggregatorNotIndexed = errors.NewKind("aggregator %s was not assigned a level")

	// ErrComplexAggregateBody is returned when an aggregation body is not
	// a single atom at lowering time; the materialisation transform should
	// have rewritten it.
	ErrComplexAggregateBody = errors.NewKind("aggregation body of %s is not a single atom")

	// ErrUnsupportedNode is returned when lowering meets a node kind it
	// cannot translate.
	ErrUnsupportedNode = errors.NewKind("unsupported node type %T")
)
