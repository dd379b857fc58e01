// Command duoctl is the maintenance CLI for duo.
//
// Usage:
//
//	duoctl                      Show help
//	duoctl import <source>      Load a roster into the local database
//	duoctl list                 Show the stored roster
//	duoctl remove <id>...       Delete profiles from the roster
//	duoctl config               Show or initialize the config file
//	duoctl events               JSONL event log viewer
package main

import (
	"fmt"
	"os"
)

const usage = `duoctl - duo roster & debug CLI

Usage:
  duoctl <command> [flags]

Commands:
  import      Load a roster (JSON file or http(s) URL) into the local database
  list        Show the stored roster with tier and role distribution
  remove      Delete profiles by ID
  config      Print the effective configuration (-init writes defaults)
  events      JSONL event log viewer

Environment:
  DUO_ROSTER      Roster source used by duo (file, URL, or sqlite:<path>)
  DUO_THRESHOLD   Swipe threshold in distance units (default: 80)
  DUO_SETTLE_MS   Exit animation duration (default: 400)

Run 'duoctl <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "import":
		runImport()
	case "list":
		runList()
	case "remove":
		runRemove()
	case "config":
		runConfig()
	case "events":
		runEvents()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "duoctl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
