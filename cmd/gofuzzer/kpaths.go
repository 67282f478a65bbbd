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
	"strconv"

	"github.com/ogier/pflag"

	"github.com/jrenckens/gofuzzer/internal/chunkreg"
	"github.com/jrenckens/gofuzzer/internal/corpus"
	"github.com/jrenckens/gofuzzer/internal/gofuzzerr"
	"github.com/jrenckens/gofuzzer/internal/kpath"
)

// runKPaths implements `kpaths N FILES…`: parses FILES to recover their
// chunk sequences, builds a reachability graph from the chunk-type
// transitions observed in them (the type immediately following a chunk of
// type T is an edge T -> that type), and prints every path of length N
// through it.
func runKPaths(args []string) int {
	fs := pflag.NewFlagSet("kpaths", pflag.ContinueOnError)
	templateName := fs.String("template", "png", "registered template to run")
	if err := fs.Parse(args); err != nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	tpl := resolveTemplate(*templateName)
	if tpl == nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "!! kpaths requires a path length N and at least one input file")
		return gofuzzerr.KindUsage.ExitCode()
	}
	n, err := strconv.Atoi(rest[0])
	if err != nil || n <= 0 {
		fmt.Fprintf(os.Stderr, "!! kpaths: invalid path length %q\n", rest[0])
		return gofuzzerr.KindUsage.ExitCode()
	}

	entries, err := corpus.Load(rest[1:])
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

	graph := reachabilityGraph(reg, decisions)
	paths := kpath.KPaths(n, graph)
	for _, p := range paths {
		fmt.Println(p.String())
	}
	return len(failed)
}

// reachabilityGraph builds a kpath.Graph over chunk type tags from the
// type-adjacency observed while parsing each file in reg.
func reachabilityGraph(reg *chunkreg.Registry, decisions map[int][]byte) kpath.Graph {
	g := kpath.Graph{}
	for fileIndex := range decisions {
		chunks := reg.AllChunks(fileIndex)
		for i, c := range chunks {
			if _, ok := g[c.Type]; !ok {
				g[c.Type] = nil
			}
			if i+1 >= len(chunks) {
				continue
			}
			next := chunks[i+1].Type
			g[c.Type] = appendUnique(g[c.Type], next)
		}
	}
	return g
}

func appendUnique(existing []string, v string) []string {
	for _, e := range existing {
		if e == v {
			return existing
		}
	}
	return append(existing, v)
}
