// Package ui renders dialog process events as short console messages.
//
// Detailed telemetry keeps flowing through the structured loggers; the console
// logger only tells a user which dialog is open and how it closed.
package ui
