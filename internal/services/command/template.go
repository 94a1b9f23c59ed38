package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"
)

const (
	// InputPlaceholder is replaced with the source file path.
	InputPlaceholder = "%in%"
	// OutputPlaceholder is replaced with the destination file path.
	OutputPlaceholder = "%out%"
)

// Split breaks an argument template into words using shell quoting rules.
// Environment variables and backticks are left literal; unquoted shell
// operators such as ; | & are rejected because no shell runs the command.
func Split(template string) ([]string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false
	words, err := parser.Parse(template)
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", template, err)
	}
	if parser.Position >= 0 {
		return nil, fmt.Errorf("parse template %q: shell operators are not supported, quote them", template)
	}
	return words, nil
}

// Expand splits template and substitutes the placeholders in every word.
func Expand(template, input, output string) ([]string, error) {
	words, err := Split(template)
	if err != nil {
		return nil, err
	}
	replacer := strings.NewReplacer(InputPlaceholder, input, OutputPlaceholder, output)
	for i, word := range words {
		words[i] = replacer.Replace(word)
	}
	return words, nil
}

// Validate reports whether template can be split. An empty template is valid.
func Validate(template string) error {
	_, err := Split(template)
	return err
}

// Format renders a command line for logs, quoting arguments that contain
// whitespace or quotes.
func Format(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" || strings.ContainsAny(arg, " \t\n\"'") {
		return strconv.Quote(arg)
	}
	return arg
}
