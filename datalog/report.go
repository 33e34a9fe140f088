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

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

// Severity distinguishes errors from warnings. Warnings never block
// compilation.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityError {
		return "Error"
	}
	return "Warning"
}

// DiagnosticMessage is a message with an optional source location.
type DiagnosticMessage struct {
	Message  string
	Location ast.SrcLocation
	HasLoc   bool
}

// NewLocatedMessage returns a message anchored at a source location.
func NewLocatedMessage(message string, loc ast.SrcLocation) DiagnosticMessage {
	return DiagnosticMessage{Message: message, Location: loc, HasLoc: true}
}

// NewMessage returns a message without a location.
func NewMessage(message string) DiagnosticMessage {
	return DiagnosticMessage{Message: message}
}

func (m DiagnosticMessage) String() string {
	if m.HasLoc {
		return fmt.Sprintf("%s in %s", m.Message, m.Location.ExtLoc())
	}
	return m.Message
}

// Diagnostic is a primary message with severity and zero or more additional
// messages.
type Diagnostic struct {
	Severity   Severity
	Primary    DiagnosticMessage
	Additional []DiagnosticMessage
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.WriteString(d.Severity.String() + ": " + d.Primary.String())
	for _, m := range d.Additional {
		sb.WriteString("\n" + m.String())
	}
	return sb.String()
}

// less orders diagnostics: located first, then by location, then errors
// before warnings, then by message text.
func (d Diagnostic) less(other Diagnostic) bool {
	if d.Primary.HasLoc != other.Primary.HasLoc {
		return d.Primary.HasLoc
	}
	if d.Primary.HasLoc {
		if c := d.Primary.Location.Compare(other.Primary.Location); c != 0 {
			return c < 0
		}
	}
	if d.Severity != other.Severity {
		return d.Severity == SeverityError
	}
	return d.Primary.Message < other.Primary.Message
}

func (d Diagnostic) equal(other Diagnostic) bool {
	return !d.less(other) && !other.less(d)
}

// ErrorReport accumulates diagnostics as a sorted, duplicate-free set.
type ErrorReport struct {
	diagnostics []Diagnostic
}

// NewErrorReport returns an empty report.
func NewErrorReport() *ErrorReport {
	return &ErrorReport{}
}

// AddError adds an error diagnostic with a location.
func (r *ErrorReport) AddError(message string, loc ast.SrcLocation) {
	r.AddDiagnostic(Diagnostic{Severity: SeverityError, Primary: NewLocatedMessage(message, loc)})
}

// AddWarning adds a warning diagnostic with a location.
func (r *ErrorReport) AddWarning(message string, loc ast.SrcLocation) {
	r.AddDiagnostic(Diagnostic{Severity: SeverityWarning, Primary: NewLocatedMessage(message, loc)})
}

// AddDiagnostic inserts a diagnostic. Adding a duplicate is a no-op.
func (r *ErrorReport) AddDiagnostic(d Diagnostic) {
	i := sort.Search(len(r.diagnostics), func(i int) bool {
		return !r.diagnostics[i].less(d)
	})
	if i < len(r.diagnostics) && r.diagnostics[i].equal(d) {
		return
	}
	r.diagnostics = append(r.diagnostics, Diagnostic{})
	copy(r.diagnostics[i+1:], r.diagnostics[i:])
	r.diagnostics[i] = d
}

// Diagnostics returns the diagnostics in report order.
func (r *ErrorReport) Diagnostics() []Diagnostic {
	return r.diagnostics
}

// NumErrors returns the number of error-severity diagnostics.
func (r *ErrorReport) NumErrors() int {
	n := 0
	for _, d := range r.diagnostics {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// NumWarnings returns the number of warning-severity diagnostics.
func (r *ErrorReport) NumWarnings() int {
	n := 0
	for _, d := range r.diagnostics {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// NumIssues returns the total number of diagnostics.
func (r *ErrorReport) NumIssues() int {
	return len(r.diagnostics)
}

// Print writes every diagnostic, one per line block, to the given writer.
func (r *ErrorReport) Print(w io.Writer) {
	for _, d := range r.diagnostics {
		fmt.Fprintln(w, d)
	}
}

func (r *ErrorReport) String() string {
	var sb strings.Builder
	r.Print(&sb)
	return sb.String()
}
