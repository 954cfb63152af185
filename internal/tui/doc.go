/*
Package tui implements the terminal todo list.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: Maintains all application state
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Core state, messages and the Update loop
  - keys.go: Mode routing; normal-mode keys go through keybinds.Interpreter
  - actions.go: keybinds.Handler implementation, todo and archive requests, page loads
  - links.go: Link activation (browser, clipboard fallback, filter links)
  - render.go / modals.go: View rendering

# Requests

Toggling a todo or archiving registers a request with executor.Tracker
synchronously; the network call runs as a tea.Cmd and its result returns as
a requestCompletedMsg. Update hands it to Tracker.Finish, so continuations
(adopting the new hash, reloading the page) run on the UI goroutine.

Leaving the page (quit, reload, filter links) while requests are pending
asks for confirmation first.
*/
package tui
