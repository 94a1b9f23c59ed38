// Package logs reads the albumpress log file for the `albumpress logs`
// command: the last N lines, follow mode, and a compact rendering of the
// JSON records the file handler writes.
package logs
