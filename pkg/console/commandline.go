package console

import (
	"regexp"
	"strings"
	"unicode"
)

// QuotePlaceholder stands in for whitespace inside a quoted phrase between the
// quoting pass and tokenization. Input already containing it is not escaped.
const QuotePlaceholder = '\x1f'

var quotedPhrase = regexp.MustCompile(`"(.*?)"`)

// CommandLine is one tokenized line of console input.
type CommandLine struct {
	// Name is the lower-cased first token.
	Name string
	// Args are the remaining positional tokens with quoted phrases kept whole.
	Args []string
	// RawInput is the untouched input text.
	RawInput string
}

// ParseCommandLine tokenizes `COMMAND_NAME (ARG)*` where ARG is a bare token or
// a double-quoted phrase.
//
// matched is false when text holds no token at all.
func ParseCommandLine(text string) (line CommandLine, matched bool) {
	line.RawInput = text

	fields := strings.Fields(protectQuotedPhrases(text))
	if len(fields) == 0 {
		return line, false
	}

	line.Name = strings.ToLower(restorePlaceholders(fields[0]))
	if len(fields) > 1 {
		line.Args = make([]string, 0, len(fields)-1)
		for _, field := range fields[1:] {
			line.Args = append(line.Args, restorePlaceholders(field))
		}
	}

	return line, true
}

// protectQuotedPhrases strips the quotes of every quoted phrase and replaces the
// whitespace inside it with QuotePlaceholder.
func protectQuotedPhrases(text string) string {
	if !strings.Contains(text, `"`) {
		return text
	}

	return quotedPhrase.ReplaceAllStringFunc(text, func(match string) string {
		inner := match[1 : len(match)-1]
		if inner == "" {
			return string(QuotePlaceholder)
		}
		return strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return QuotePlaceholder
			}
			return r
		}, inner)
	})
}

// restorePlaceholders turns placeholders back into spaces. A token made of a
// single placeholder is an empty quoted phrase.
func restorePlaceholders(token string) string {
	if token == string(QuotePlaceholder) {
		return ""
	}

	return strings.ReplaceAll(token, string(QuotePlaceholder), " ")
}

// QuoteArg quotes an empty argument or one containing whitespace so it
// survives ParseCommandLine.
func QuoteArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if strings.IndexFunc(arg, unicode.IsSpace) < 0 {
		return arg
	}

	return `"` + arg + `"`
}

// FormatCommandLine joins a command name and arguments into submittable text.
func FormatCommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		parts = append(parts, QuoteArg(arg))
	}

	return strings.Join(parts, " ")
}
