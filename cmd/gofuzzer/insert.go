/*******************************************************************************
*
* This file is part of gofuzzer.
*
* gofuzzer is free software: you can redistribute it and/or modify it under
* the terms of the GNU General Public License as published by the Free
* Software Foundation, either version 3 of the License, or (at your option)
* any later version.
*
* gofuzzer is distributed in the hope that it will be useful, but WITHOUT ANY
* WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
* FOR A PARTICULAR PURPOSE. See the GNU General Public License for more
* details.
*
* You should have received a copy of the GNU General Public License along
* with gofuzzer. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

package main

import (
	"fmt"
	"os"

	"github.com/ogier/pflag"

	"github.com/jrenckens/gofuzzer/internal/gofuzzerr"
	"github.com/jrenckens/gofuzzer/internal/splice"
)

// runInsert implements:
//
//	insert --targetfile F_T --targetstart a
//	       --sourcefile F_S --sourcestart c --sourceend d OUTFILE
//
// Inserts the optional chunk spanning file bytes [c,d] in F_S into F_T at
// file-byte position a. That position must be the start of an absent
// optional chunk in F_T, i.e. a spot where the template probed for another
// optional chunk and found none (such as right after the last chunk of an
// optional run) — locateInsertionPoint rejects anything else, including the
// start of an optional chunk that is present.
func runInsert(args []string) int {
	fs := pflag.NewFlagSet("insert", pflag.ContinueOnError)
	targetFile := fs.String("targetfile", "", "file to insert a chunk into")
	targetStart := fs.Int("targetstart", -1, "file-byte position to insert at")
	sourceFile := fs.String("sourcefile", "", "file to take the donor chunk from")
	sourceStart := fs.Int("sourcestart", -1, "file-byte start of the donor chunk")
	sourceEnd := fs.Int("sourceend", -1, "file-byte end of the donor chunk")
	templateName := fs.String("template", "png", "registered template to run")
	if err := fs.Parse(args); err != nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	tpl := resolveTemplate(*templateName)
	if tpl == nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "!! insert: missing output file")
		return gofuzzerr.KindUsage.ExitCode()
	}
	out := fs.Arg(0)
	if *targetFile == "" || *targetStart < 0 {
		fmt.Fprintln(os.Stderr, "!! insert: missing required arguments for target file")
		return gofuzzerr.KindUsage.ExitCode()
	}
	if *sourceFile == "" || *sourceStart < 0 || *sourceEnd < 0 {
		fmt.Fprintln(os.Stderr, "!! insert: missing required arguments for source file")
		return gofuzzerr.KindUsage.ExitCode()
	}

	insertionPoint, targetDecisions, err := locateInsertionPoint(tpl, *targetFile, *targetStart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
		return gofuzzerr.KindChunkNotFound.ExitCode()
	}
	donor, err := locateChunk(tpl, *sourceFile, *sourceStart, *sourceEnd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
		return gofuzzerr.KindChunkNotFound.ExitCode()
	}

	result, err := splice.Insert(tpl, insertionPoint, targetDecisions, donor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
		if fe, ok := err.(*gofuzzerr.Error); ok {
			return fe.Kind.ExitCode()
		}
		return gofuzzerr.KindTypeMismatch.ExitCode()
	}

	if err := os.WriteFile(out, result.File, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "!! writing %s: %s\n", out, err)
		return gofuzzerr.KindGenerationFailure.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "%s created\n", out)
	return result.Drift.Sign()
}
