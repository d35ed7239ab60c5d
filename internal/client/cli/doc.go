// Package cli provides the interactive tgcloud console.
//
// The console is a single-goroutine read-eval-print loop. Commands call the
// triggers in services, which do their work in the background and report back
// through an observer.Host owned by the App. Login prompts from those tasks
// are routed to the loop too, so the next line typed goes to the prompt
// instead of the command parser.
//
// Commands:
//   - pick <path>: select a file
//   - auth [phone]: connect and log in (code and 2FA prompts follow)
//   - upload: upload the selected file
//   - (l)ist | refresh: show upload history
//   - status: show session state
//   - exit | quit: leave the program
//
// The loop is started via App.Run, which blocks until the user exits.
package cli
