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

	"github.com/jrenckens/gofuzzer/internal/corpus"
	"github.com/jrenckens/gofuzzer/internal/gofuzzerr"
)

// runParse implements `parse [--decisions SINK] FILES…`.
func runParse(args []string) int {
	fs := pflag.NewFlagSet("parse", pflag.ContinueOnError)
	sink := fs.String("decisions", "", "write the recovered decision stream here (single-file mode only)")
	templateName := fs.String("template", "png", "registered template to run")
	if err := fs.Parse(args); err != nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	tpl := resolveTemplate(*templateName)
	if tpl == nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "!! parse requires at least one input file")
		return gofuzzerr.KindUsage.ExitCode()
	}

	entries, err := corpus.Load(files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
		return gofuzzerr.KindUsage.ExitCode()
	}

	_, _, failed, err := corpus.Parse(tpl, entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
		return gofuzzerr.KindUsage.ExitCode()
	}
	for _, f := range failed {
		fmt.Fprintf(os.Stderr, "!! failed to parse %s\n", f)
	}

	if *sink != "" && len(entries) == 1 {
		if entries[0].Decisions != nil {
			if err := os.WriteFile(*sink, entries[0].Decisions, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "!! writing %s: %s\n", *sink, err)
				return len(failed) + 1
			}
		}
	} else if err := corpus.PersistSidecars(entries); err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
		return len(failed) + 1
	}

	return len(failed)
}
