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

	"github.com/jrenckens/gofuzzer/internal/decision"
	"github.com/jrenckens/gofuzzer/internal/filebuf"
	"github.com/jrenckens/gofuzzer/internal/gofuzzerr"
	"github.com/jrenckens/gofuzzer/internal/session"
)

// runFuzz implements `fuzz [--decisions SOURCE] [-p] FILES…`.
func runFuzz(args []string) int {
	fs := pflag.NewFlagSet("fuzz", pflag.ContinueOnError)
	decisionsPath := fs.String("decisions", "", "read decision-stream entropy from this file instead of the system RNG")
	printToStdout := fs.BoolP("print", "p", false, "print generated files to stdout instead of writing them")
	templateName := fs.String("template", "png", "registered template to run")
	if err := fs.Parse(args); err != nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	tpl := resolveTemplate(*templateName)
	if tpl == nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	outputs := fs.Args()
	if len(outputs) == 0 {
		outputs = []string{"-"}
	}
	entropy := entropySource(*decisionsPath)

	failed := 0
	for _, out := range outputs {
		r, err := entropy(decision.MaxSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "!! reading entropy for %s: %s\n", out, err)
			failed++
			continue
		}

		ds := decision.New(r)
		fb := filebuf.NewWriter()
		s := session.New(session.ModeGenerate, ds, fb, nil, 0)
		if err := session.Run(tpl, s); err != nil {
			fmt.Fprintf(os.Stderr, "!! generating %s: %s\n", out, err)
			failed++
			continue
		}

		if out == "-" || *printToStdout {
			os.Stdout.Write(fb.Bytes())
			continue
		}
		if err := os.WriteFile(out, fb.Bytes(), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "!! writing %s: %s\n", out, err)
			failed++
		}
	}
	return failed
}
