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

// Package errutil adapts the teacher's error-aggregation and error-display
// helpers (src/holo-build/errorcollector.go, src/holo-build/main.go's
// showError) to this repository's domain.
package errutil

import (
	"errors"
	"fmt"
	"os"
)

// Collector is a wrapper around []error that simplifies code where multiple
// errors can happen and need to be aggregated for collective display.
type Collector struct {
	Errors []error
}

// Add adds an error to this collector. Nil is ignored, so callers can write
//
//	ec.Add(operationThatMightFail())
func (c *Collector) Add(err error) {
	if err != nil {
		c.Errors = append(c.Errors, err)
	}
}

// Addf adds an error built from a format string.
func (c *Collector) Addf(format string, args ...interface{}) {
	if len(args) > 0 {
		c.Errors = append(c.Errors, fmt.Errorf(format, args...))
	} else {
		c.Errors = append(c.Errors, errors.New(format))
	}
}

// Ok reports whether no errors were collected.
func (c *Collector) Ok() bool {
	return len(c.Errors) == 0
}

// Report prints every collected error to stderr in the teacher's
// highlighted style.
func (c *Collector) Report() {
	for _, err := range c.Errors {
		Report(err)
	}
}

// Report prints one error to stderr, prefixed the way
// src/holo-build/main.go's showError does.
func Report(err error) {
	fmt.Fprintf(os.Stderr, "\x1b[31m\x1b[1m!!\x1b[0m %s\n", err.Error())
}
