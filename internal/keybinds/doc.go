/*
Package keybinds maps key presses to todo list actions.

# Overview

Bindings live in a Registry keyed by context. A key is looked up in its
own context first, then in the global context.

# Components

Registry (registry.go):
  - Single-key bindings per context
  - Multi-key sequences matched against recent keys ("gg", "\D")

Interpreter (interpreter.go):
  - Keeps the last ten keys in a SequenceBuffer
  - Checks sequences before single keys; the first matching sequence wins
  - A terminal sequence clears the buffer, suppresses the default and stops
  - A non-terminal sequence leaves the buffer alone and single-key dispatch continues
  - Hands actions to a Handler, which decides whether the default is suppressed

Validator (validator.go):
  - Empty keys and actions
  - Sequences shorter than two keys or longer than the buffer
  - Sequence prefixes that also fire single-key bindings (warning)
  - Reserved key rebindings and global shadowing (warnings)

# Configuration File Format

~/.todoui/keybinds.json is JSON with comments. Sections map key to action:

	{
	  // swap navigation
	  "normal": {
	    "n": "navigate_down",
	    "p": "navigate_up",
	    "x": ""
	  },
	  "sequences": [
	    {"keys": ["d", "d"], "action": "toggle_focused", "terminal": true}
	  ]
	}

An empty action removes a default binding.

# Example Usage

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}

	interp := keybinds.NewInterpreter(registry, handler)
	res := interp.Press(msg.String())
	if res.SuppressDefault {
		return m, nil
	}
*/
package keybinds
