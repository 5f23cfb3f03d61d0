// Package cli provides the interactive authdesk command-line client.
//
// It wires configuration, the session client, the auth service and the
// router into a REPL. Typical flow: start the one startup session check in
// the background (the Loading placeholder is shown until it finishes),
// then execute user commands.
//
// Key features:
//   - Navigation between Home, Login, Register and Dashboard by path
//   - Gated routes: Login/Register send signed-in users to the Dashboard,
//     the Dashboard sends anonymous users to Login
//   - Login / Register forms; backend messages are shown verbatim
//   - Logout, which always clears the local session
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and App.Open for details.
package cli
