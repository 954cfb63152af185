package tui

// UI Layout Constants

const (
	// Modal Dimensions - Standard margins for modal dialogs
	ModalWidthMargin  = 6 // Standard horizontal margin (m.width - 6)
	ModalHeightMargin = 3 // Standard vertical margin (m.height - 3)

	// Main view
	HeaderLines       = 2 // Title + filter line
	StatusBarLines    = 1
	NotificationLines = 4 // Border (2) + message + hint

	// Modal Content Calculations
	ModalOverheadLines = 6 // Title (2) + padding (2) + border (2)

	// Status messages longer than this are truncated in the status bar
	StatusMaxLength = 100
)

// Number of requests shown in the history view
const historyLimit = 100
