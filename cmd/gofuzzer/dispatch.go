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
)

// Command is one dispatch-table entry: name, handler, one-line description.
// Mirrors the original fuzzer.cpp's COMMAND array and its name-matching
// dispatch loop in main().
type Command struct {
	Name string
	Run  func(args []string) int
	Desc string
}

// commands is populated by init, not a var initializer: runHelp ranges over
// commands to print its listing, and a var initializer expression that
// refers to a function whose body refers back to that same variable is an
// initialization cycle as far as the compiler's dependency analysis is
// concerned, whether or not the reference sits inside a closure literal.
// Assigning inside init sidesteps that analysis entirely.
var commands []Command

func init() {
	commands = []Command{
		{"fuzz", runFuzz, "Generate random inputs"},
		{"parse", runParse, "Parse inputs"},
		{"replace", runReplace, "Apply a smart replacement"},
		{"delete", runDelete, "Apply a smart deletion"},
		{"insert", runInsert, "Apply a smart insertion"},
		{"mutations", runMutations, "Run smart mutations over a corpus"},
		{"test", runTest, "Roundtrip sanity check"},
		{"benchmark", runBenchmark, "Benchmark fuzzing throughput"},
		{"kpaths", runKPaths, "Generate grammar k-paths"},
		{"version", runVersion, "Show version"},
		{"help", runHelp, "Show this help"},
	}
}

func lookupCommand(name string) *Command {
	for i := range commands {
		if commands[i].Name == name {
			return &commands[i]
		}
	}
	return nil
}

func runHelp(args []string) int {
	fmt.Fprintf(os.Stderr, "usage: gofuzzer COMMAND [OPTIONS...] [ARGS...]\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "%-10s - %s\n", c.Name, c.Desc)
	}
	fmt.Fprintf(os.Stderr, "Use COMMAND --help to learn more\n")
	return 0
}
