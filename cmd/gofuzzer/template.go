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

	"github.com/jrenckens/gofuzzer/internal/template"
)

// resolveTemplate looks up a registered template by name, reporting a
// teacher-style highlighted error and returning nil if it isn't registered.
func resolveTemplate(name string) template.Template {
	tpl := template.Lookup(name)
	if tpl == nil {
		fmt.Fprintf(os.Stderr, "\x1b[31m\x1b[1m!!\x1b[0m unknown template %q (have: %v)\n", name, template.Names())
	}
	return tpl
}
