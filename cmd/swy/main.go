/*
Copyright © 2025 the SWY authors.
This file is part of SWY.

SWY is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SWY is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SWY.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command swy is a command-line interface for the SWY seasonal water
// yield model.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/swy/swycmd"
)

func main() {
	if err := swycmd.RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
