// Command ishremote manages content on an ISH server from the command
// line: folders, document objects, searches, users and user roles.
//
// Settings come from, in increasing priority, built-in defaults, a
// profile in $XDG_CONFIG_HOME/ishremote/config.yaml, ISH_* environment
// variables and flags.
//
// The password can be provided via:
//   - --password flag (least secure, visible in process list)
//   - ISH_PASSWORD environment variable (recommended)
//   - stdin prompt (if the environment variable is not set)
//
// Usage:
//
//	ishremote --ws-url https://ish.example.com/ISHWS/ --user admin session
//	ishremote folder get 'General\MyFolder' --depth 2
//	ishremote docobj get GUID-1234 --version 1 --lng en -m FTITLE[logical]
//	ishremote search "installation" --type ISHModule --lng en
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
