// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"

	"github.com/bartekus/maylang/cmd/may/commands"
	"github.com/bartekus/maylang/cmd/may/internal/clierr"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		if !clierr.IsSilent(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(clierr.ExitCodeOf(err))
	}
}
