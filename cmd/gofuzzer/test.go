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

	"github.com/jrenckens/gofuzzer/internal/config"
	"github.com/jrenckens/gofuzzer/internal/gofuzzerr"
	"github.com/jrenckens/gofuzzer/internal/roundtrip"
)

// runTest implements `test [--iterations N] [--randsize N] [--debugdir DIR]`:
// repeatedly generate-parse-regenerate and stop at the first byte mismatch,
// persisting r0/f0/r1/f1 debug artifacts when one occurs.
func runTest(args []string) int {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	iterations := fs.Int("iterations", config.DefaultIterations, "number of roundtrips to attempt")
	randSize := fs.Int("randsize", config.DefaultRandSize, "decision bytes of entropy per attempt")
	decisionsPath := fs.String("decisions", "", "read entropy from this file instead of the system RNG")
	debugDir := fs.String("debugdir", ".", "directory to write r0/f0/r1/f1 into on a mismatch")
	templateName := fs.String("template", "png", "registered template to run")
	if err := fs.Parse(args); err != nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	tpl := resolveTemplate(*templateName)
	if tpl == nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	entropy := entropySource(*decisionsPath)
	result, err := roundtrip.Run(tpl, *iterations, *randSize, entropy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
		return gofuzzerr.KindGenerationFailure.ExitCode()
	}

	fmt.Fprintf(os.Stderr, "Tested %d files from %d attempts in %s, parsing speed %.2f / s\n",
		result.Generated, result.Attempts, result.Elapsed, result.ParseSpeed())

	if result.Mismatch == nil {
		return 0
	}

	fmt.Fprintf(os.Stderr, "!! roundtrip %d: %s\n", result.Mismatch.Iteration, result.Mismatch.Reason)
	writeFile := func(path string, data []byte) error { return os.WriteFile(path, data, 0644) }
	if err := result.Mismatch.PersistDebugArtifacts(*debugDir, writeFile); err != nil {
		fmt.Fprintf(os.Stderr, "!! %s\n", err)
	}
	return 1
}
