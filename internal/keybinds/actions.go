package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal  Context = "global"  // Available everywhere
	ContextNormal  Context = "normal"  // Todo list
	ContextConfirm Context = "confirm" // Quit confirmation with pending requests
	ContextHelp    Context = "help"    // Help viewer
	ContextHistory Context = "history" // Request history viewer
)

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)

	// Navigation actions
	ActionNavigateUp   Action = "navigate_up"   // Focus previous element
	ActionNavigateDown Action = "navigate_down" // Focus next element
	ActionGoToTop      Action = "go_to_top"     // Focus first element
	ActionGoToBottom   Action = "go_to_bottom"  // Focus last element
	ActionScrollUp     Action = "scroll_up"     // Scroll viewport up
	ActionScrollDown   Action = "scroll_down"   // Scroll viewport down

	// Todo actions
	ActionToggleFocused   Action = "toggle_focused"   // Toggle the focused checkbox
	ActionFollowLink      Action = "follow_link"      // Open the first plain link of the focused row
	ActionArchiveFinished Action = "archive_finished" // Move finished todos to done.txt
	ActionRefresh         Action = "refresh"          // Reload the page
	ActionClearFilter     Action = "clear_filter"     // Drop context/project filter and reload

	// Notification
	ActionDismissNotification Action = "dismiss_notification"

	// Modal actions
	ActionOpenHelp    Action = "open_help"
	ActionOpenHistory Action = "open_history"
	ActionCloseModal  Action = "close_modal"
	ActionConfirm     Action = "confirm"
	ActionCancel      Action = "cancel"

	ActionNoOp Action = "noop" // No operation (ignore key)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:                {ActionQuit, "Quit", "Global"},
	ActionQuitForce:           {ActionQuitForce, "Force quit", "Global"},
	ActionNavigateUp:          {ActionNavigateUp, "Previous item", "Navigation"},
	ActionNavigateDown:        {ActionNavigateDown, "Next item", "Navigation"},
	ActionGoToTop:             {ActionGoToTop, "First item", "Navigation"},
	ActionGoToBottom:          {ActionGoToBottom, "Last item", "Navigation"},
	ActionScrollUp:            {ActionScrollUp, "Scroll up", "Navigation"},
	ActionScrollDown:          {ActionScrollDown, "Scroll down", "Navigation"},
	ActionToggleFocused:       {ActionToggleFocused, "Toggle todo", "Todos"},
	ActionFollowLink:          {ActionFollowLink, "Open link", "Todos"},
	ActionArchiveFinished:     {ActionArchiveFinished, "Archive finished todos", "Todos"},
	ActionRefresh:             {ActionRefresh, "Reload", "Todos"},
	ActionClearFilter:         {ActionClearFilter, "Clear filter", "Todos"},
	ActionDismissNotification: {ActionDismissNotification, "Dismiss notification", "Todos"},
	ActionOpenHelp:            {ActionOpenHelp, "Help", "Information"},
	ActionOpenHistory:         {ActionOpenHistory, "Request history", "Information"},
	ActionCloseModal:          {ActionCloseModal, "Close", "Modal"},
	ActionConfirm:             {ActionConfirm, "Confirm", "Modal"},
	ActionCancel:              {ActionCancel, "Cancel", "Modal"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action is one the application handles
func IsKnownAction(action Action) bool {
	if action == ActionNoOp {
		return true
	}
	_, ok := actionInfos[action]
	return ok
}
