// Package shared groups helpers used across packages.
//
// The testutil subpackage builds xlsx fixtures at test time
// (WorkbookBuilder, WriteSources) and provides silent and capturing slog
// loggers, so no binary fixtures are checked in.
package shared
