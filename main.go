// Package main provides the entry point for shellfront, an interactive
// shell front-end.
package main

import (
	cmdroot "github.com/inercia/shellfront/cmd"
	"github.com/inercia/shellfront/pkg/common"
)

// main sets up the top level panic recovery and executes the root command,
// which processes CLI flags and runs the shell or the selected subcommand.
func main() {
	defer common.RecoverPanic()

	cmdroot.Execute()
}
