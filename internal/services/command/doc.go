// Package command runs the external tools a batch is built around.
//
// Argument templates are split with shell quoting rules and the %in% and %out%
// placeholders are replaced inside each resulting word, so paths with spaces
// reach the tool as single arguments without passing through a shell. The
// Executor interface isolates process management so clients can be tested
// with fakes.
package command
