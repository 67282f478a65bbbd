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
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/ogier/pflag"

	"github.com/jrenckens/gofuzzer/internal/config"
	"github.com/jrenckens/gofuzzer/internal/corpus"
	"github.com/jrenckens/gofuzzer/internal/decision"
	"github.com/jrenckens/gofuzzer/internal/filebuf"
	"github.com/jrenckens/gofuzzer/internal/gofuzzerr"
	"github.com/jrenckens/gofuzzer/internal/session"
)

// runBenchmark implements `benchmark [--iterations N] [--checker PROG]
// [--archive PATH]`: generates iterations files, measures throughput, and
// when --checker is given, runs it against every generated file and reports
// an exit-status histogram and validity ratio (the fraction exiting 0).
// With --archive, every generated file is bundled into a cpio archive
// alongside the checker's exit status, one record per file.
func runBenchmark(args []string) int {
	fs := pflag.NewFlagSet("benchmark", pflag.ContinueOnError)
	iterations := fs.Int("iterations", config.DefaultIterations, "number of files to generate")
	randSize := fs.Int("randsize", config.DefaultRandSize, "decision bytes of entropy per file")
	checker := fs.String("checker", "", "program to run against each generated file")
	archivePath := fs.String("archive", "", "write a cpio archive of generated files plus exit status here")
	templateName := fs.String("template", "png", "registered template to run")
	if err := fs.Parse(args); err != nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	tpl := resolveTemplate(*templateName)
	if tpl == nil {
		return gofuzzerr.KindUsage.ExitCode()
	}

	entropy := entropySource("")
	histogram := map[int]int{}
	valid := 0
	var records []corpus.BenchmarkRecord

	start := time.Now()
	generated := 0
	for i := 0; i < *iterations; i++ {
		r, err := entropy(*randSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "!! reading entropy: %s\n", err)
			continue
		}
		ds := decision.New(r)
		fb := filebuf.NewWriter()
		s := session.New(session.ModeGenerate, ds, fb, nil, 0)
		if err := session.Run(tpl, s); err != nil {
			continue
		}
		file := fb.Bytes()
		if len(file) == 0 {
			continue
		}
		generated++

		status := 0
		if *checker != "" {
			status = runChecker(*checker, file)
			histogram[status]++
			if status == 0 {
				valid++
			}
		}
		if *archivePath != "" {
			records = append(records, corpus.BenchmarkRecord{Data: file, ExitStatus: status})
		}
	}
	elapsed := time.Since(start)

	fmt.Fprintf(os.Stderr, "Generated %d/%d files in %s (%.2f / s)\n",
		generated, *iterations, elapsed, float64(generated)/elapsed.Seconds())
	if *checker != "" && generated > 0 {
		fmt.Fprintf(os.Stderr, "Validity ratio: %.4f\n", float64(valid)/float64(generated))
		for status, count := range histogram {
			fmt.Fprintf(os.Stderr, "  exit %d: %d\n", status, count)
		}
	}
	if *archivePath != "" {
		blob, err := corpus.WriteBenchmarkCPIO(records)
		if err != nil {
			fmt.Fprintf(os.Stderr, "!! building archive: %s\n", err)
			return gofuzzerr.KindGenerationFailure.ExitCode()
		}
		if err := os.WriteFile(*archivePath, blob, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "!! writing %s: %s\n", *archivePath, err)
			return gofuzzerr.KindGenerationFailure.ExitCode()
		}
	}
	return 0
}

// runChecker runs prog with the generated file piped to stdin and reports
// its exit status (0 on success, the process's exit code otherwise, -1 if
// it could not be started or did not exit cleanly).
func runChecker(prog string, file []byte) int {
	cmd := exec.Command(prog)
	cmd.Stdin = bytes.NewReader(file)
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		return -1
	}
	return 0
}
