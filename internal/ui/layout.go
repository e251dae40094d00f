package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width for optional table columns
	// (company, campaign, cost).
	LayoutWideWidth = 130

	// LayoutExtraWideWidth is the width at which dashboard panels sit side by side.
	LayoutExtraWideWidth = 160
)

// Chrome is the number of rows taken by the header and command bar.
const Chrome = 2

// Log display limits.
const (
	// LogTailLines is how many lines of the log file the Logs view reads.
	LogTailLines = 1000
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the shared snapshot.
	DefaultUIInterval = time.Second

	// ToastDuration is how long a status toast stays on screen.
	ToastDuration = 4 * time.Second

	// RequestTimeout bounds a single user-initiated backend call, retries
	// included. Uploads use UploadRequestTimeout.
	RequestTimeout = 2 * time.Minute

	// UploadRequestTimeout bounds a CSV upload, retries included.
	UploadRequestTimeout = 10 * time.Minute
)
