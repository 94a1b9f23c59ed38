// Package preflight provides readiness checks for the directories a batch
// reads from and writes to.
//
// The run command calls RunAll before enumerating files so an unreadable
// source or unwritable destination fails fast. The "albumpress check" command
// renders the same results as a table.
package preflight
