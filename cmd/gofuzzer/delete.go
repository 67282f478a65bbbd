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

// runDelete implements `delete --targetfile F_T --targetstart a --targetend b OUTFILE`.
// Locates the chunk spanning file bytes [a,b] in F_T and removes it, which
// requires that chunk to be optional and immediately followed by another
// optional chunk (spec.md §3, §4.3).
func runDelete(args []string) int {
	fs := pflag.NewFlagSet("delete", pflag.ContinueOnError)
	targetFile := fs.String("targetfile", "", "file to delete a chunk from")
	targetStart := fs.Int("targetstart", -1, "file-byte start of the target chunk")
	targetEnd := fs.Int("targetend", -1, "file-byte end of the target chunk")
	templateName := fs.String("template", "png", "registered template to run")
	if err := fs.Parse(args); err != nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	tpl := resolveTemplate(*templateName)
	if tpl == nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "!! delete: missing output file")
		return gofuzzerr.KindUsage.ExitCode()
	}
	out := fs.Arg(0)
	if *targetFile == "" || *targetStart < 0 || *targetEnd < 0 {
		fmt.Fprintln(os.Stderr, "!! delete: missing required arguments for target file")
		return gofuzzerr.KindUsage.ExitCode()
	}

	target, err := locateChunk(tpl, *targetFile, *targetStart, *targetEnd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
		return gofuzzerr.KindChunkNotFound.ExitCode()
	}

	result, err := splice.Delete(tpl, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
		if fe, ok := err.(*gofuzzerr.Error); ok {
			return fe.Kind.ExitCode()
		}
		return gofuzzerr.KindPrecondition.ExitCode()
	}

	if err := os.WriteFile(out, result.File, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "!! writing %s: %s\n", out, err)
		return gofuzzerr.KindGenerationFailure.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "%s created\n", out)
	return 0
}
