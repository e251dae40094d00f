// Package logtail reads and parses the tail of callboard's own log file.
//
// # Overview
//
// The TUI owns the terminal, so logrus writes to a file instead of stderr.
// The Logs view shows the end of that file; this package does the reading
// and parsing, the UI does the styling.
//
// # Reading
//
// Read extracts the last maxLines lines in a single pass with a ring buffer,
// so memory stays O(maxLines) regardless of file size:
//
//	lines, err := logtail.Read("~/.local/state/callboard/callboard.log", 400)
//
// A missing file returns nil, nil; the log may simply not exist yet.
//
// # Parsing
//
// Lines are expected in logrus' TextFormatter layout with colors disabled:
//
//	time="2025-12-18T10:04:05Z" level=warning msg="retrying request" attempt=2 endpoint=api/leads
//
// Parse turns such a line into an Entry with the timestamp, level, message and
// remaining fields sorted by key. Anything else (a panic trace, a line from
// an older format) is kept verbatim as the message.
//
// # Filtering
//
// Filter narrows entries by minimum level and a case-insensitive substring.
// Unparsed lines always pass the level check.
package logtail
