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
	"github.com/jrenckens/gofuzzer/internal/mutate"
)

// runMutations implements `mutations [--count N] [--outdir DIR] FILES…`:
// parse the given corpus into a chunk registry, persist each file's
// recovered decision-stream sidecar, then run count planner-selected smart
// mutations against files drawn from it, writing each successful result.
func runMutations(args []string) int {
	fs := pflag.NewFlagSet("mutations", pflag.ContinueOnError)
	count := fs.Int("count", 10000, "number of smart mutations to attempt")
	outDir := fs.String("outdir", ".", "directory to write mutated files into")
	seed := fs.Int64("seed", 1, "planner RNG seed")
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
		fmt.Fprintln(os.Stderr, "!! mutations requires at least one input file")
		return gofuzzerr.KindUsage.ExitCode()
	}

	entries, err := corpus.Load(files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
		return gofuzzerr.KindUsage.ExitCode()
	}
	reg, decisions, failed, err := corpus.Parse(tpl, entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
		return gofuzzerr.KindUsage.ExitCode()
	}
	for _, f := range failed {
		fmt.Fprintf(os.Stderr, "!! failed to parse %s\n", f)
	}
	if err := corpus.PersistSidecars(entries); err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
	}
	if len(decisions) == 0 {
		fmt.Fprintln(os.Stderr, "!! no file in the corpus parsed successfully")
		return len(failed) + 1
	}

	fileIndices := make([]int, 0, len(decisions))
	for idx := range decisions {
		fileIndices = append(fileIndices, idx)
	}

	planner := mutate.New(reg, decisions, *seed)
	applied, skipped := 0, 0
	for i := 0; i < *count; i++ {
		fileIndex := fileIndices[i%len(fileIndices)]
		outcome, err := planner.MutateOne(tpl, fileIndex)
		if err != nil {
			skipped++
			continue
		}
		name := fmt.Sprintf("%s/mutation-%06d", *outDir, i)
		if err := os.WriteFile(name, outcome.Result.File, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "!! writing %s: %s\n", name, err)
			continue
		}
		applied++
	}

	fmt.Fprintf(os.Stderr, "mutations: %d applied, %d skipped (no eligible chunk)\n", applied, skipped)
	return len(failed)
}
