// Package cli is the interactive command-line front end of the potato
// catalog client.
//
// It renders the controller's ViewState and connectivity status and turns
// user commands into controller intents:
//   - login / demo / logout
//   - list (cached view) and refresh (re-fetch)
//   - add (prompts for the variety fields and an optional image file)
//   - status
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends. See runREPL for the command table.
package cli
