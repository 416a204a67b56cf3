// SPDX-License-Identifier: MPL-2.0

package main

import "redo-cli/cmd/redo"

func main() {
	cmd.Execute()
}
