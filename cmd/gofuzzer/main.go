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

// gofuzzer is the command-line front end dispatching onto the engine
// packages under internal/ (spec.md §6's external interface; §2's "Driver /
// Dispatcher", out of scope for the engine itself but specified here).
package main

import (
	"os"

	"github.com/jrenckens/gofuzzer/internal/gofuzzerr"
	_ "github.com/jrenckens/gofuzzer/internal/templates/png"
)

func main() {
	if len(os.Args) <= 1 {
		os.Exit(runHelp(nil))
	}
	cmd := lookupCommand(os.Args[1])
	if cmd == nil {
		runHelp(nil)
		os.Exit(gofuzzerr.KindUsage.ExitCode())
	}
	os.Exit(cmd.Run(os.Args[2:]))
}
