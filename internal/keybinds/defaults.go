package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerNormalModeBindings(r)
	registerSequenceBindings(r)
	registerConfirmBindings(r)
	registerHelpBindings(r)
	registerHistoryBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

// registerNormalModeBindings sets up keybindings for the todo list
func registerNormalModeBindings(r *Registry) {
	r.Register(ContextNormal, "q", ActionQuit)

	// Navigation
	r.RegisterMultiple(ContextNormal, []string{"down", "j"}, ActionNavigateDown)
	r.RegisterMultiple(ContextNormal, []string{"up", "k"}, ActionNavigateUp)
	r.Register(ContextNormal, "G", ActionGoToBottom)

	// Todo operations
	r.Register(ContextNormal, "x", ActionToggleFocused)
	r.Register(ContextNormal, "enter", ActionFollowLink)
	r.Register(ContextNormal, "r", ActionRefresh)
	r.Register(ContextNormal, "c", ActionClearFilter)
	r.Register(ContextNormal, "esc", ActionDismissNotification)

	// Modal launchers
	r.Register(ContextNormal, "?", ActionOpenHelp)
	r.Register(ContextNormal, "H", ActionOpenHistory)
}

// registerSequenceBindings sets up multi-key sequences for the todo list
func registerSequenceBindings(r *Registry) {
	r.RegisterSequence(ContextNormal, []string{"g", "g"}, ActionGoToTop, true)
	r.RegisterSequence(ContextNormal, []string{"\\", "D"}, ActionArchiveFinished, false)
}

// registerConfirmBindings sets up the quit confirmation prompt
func registerConfirmBindings(r *Registry) {
	r.RegisterMultiple(ContextConfirm, []string{"y", "Y"}, ActionConfirm)
	r.RegisterMultiple(ContextConfirm, []string{"n", "N", "esc"}, ActionCancel)
}

// registerHelpBindings sets up keybindings for the help viewer
func registerHelpBindings(r *Registry) {
	r.RegisterMultiple(ContextHelp, []string{"esc", "?", "q"}, ActionCloseModal)
	r.RegisterMultiple(ContextHelp, []string{"up", "k"}, ActionScrollUp)
	r.RegisterMultiple(ContextHelp, []string{"down", "j"}, ActionScrollDown)
}

// registerHistoryBindings sets up keybindings for the history viewer
func registerHistoryBindings(r *Registry) {
	r.RegisterMultiple(ContextHistory, []string{"esc", "H", "q"}, ActionCloseModal)
	r.RegisterMultiple(ContextHistory, []string{"up", "k"}, ActionScrollUp)
	r.RegisterMultiple(ContextHistory, []string{"down", "j"}, ActionScrollDown)
}
