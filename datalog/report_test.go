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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

func loc(file string, line int) ast.SrcLocation {
	return ast.SrcLocation{
		Filename: file,
		Start:    ast.Point{Line: line, Col: 1},
		End:      ast.Point{Line: line, Col: 2},
	}
}

func TestErrorReportOrdering(t *testing.T) {
	require := require.New(t)

	report := NewErrorReport()
	report.AddWarning("third", loc("a.dl", 9))
	report.AddError("second", loc("a.dl", 9))
	report.AddError("first", loc("a.dl", 2))
	report.AddDiagnostic(Diagnostic{
		Severity: SeverityError,
		Primary:  NewMessage("last, no location"),
	})

	var messages []string
	for _, d := range report.Diagnostics() {
		messages = append(messages, d.Primary.Message)
	}
	require.Equal([]string{"first", "second", "third", "last, no location"}, messages)
}

func TestErrorReportDeduplicates(t *testing.T) {
	require := require.New(t)

	report := NewErrorReport()
	report.AddError("boom", loc("a.dl", 1))
	report.AddError("boom", loc("a.dl", 1))
	report.AddWarning("careful", loc("a.dl", 1))
	report.AddWarning("careful", loc("a.dl", 1))

	require.Equal(1, report.NumErrors())
	require.Equal(1, report.NumWarnings())
	require.Equal(2, report.NumIssues())
}

func TestDiagnosticFormat(t *testing.T) {
	require := require.New(t)

	d := Diagnostic{
		Severity: SeverityError,
		Primary:  NewLocatedMessage("Ungrounded variable x", loc("prog.dl", 7)),
		Additional: []DiagnosticMessage{
			NewMessage("in the head of the rule"),
		},
	}
	require.Equal("Error: Ungrounded variable x in file prog.dl at line 7\nin the head of the rule", d.String())

	w := Diagnostic{
		Severity: SeverityWarning,
		Primary:  NewLocatedMessage("Variable y only occurs once", loc("prog.dl", 3)),
	}
	require.Equal("Warning: Variable y only occurs once in file prog.dl at line 3", w.String())
}
