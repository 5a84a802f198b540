// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweep

import (
	"fmt"
	"strings"
	"unicode"
)

// ErrUnterminatedQuote is returned when a param-file line opens a quote and
// never closes it.
var ErrUnterminatedQuote = fmt.Errorf("unterminated quote")

// splitTokens splits a line on whitespace into command-line tokens.
// Single or double quotes group whitespace into one token; the quote
// characters themselves are removed. An empty or blank line yields nil.
func splitTokens(line string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
		inTok  bool
	)

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}

			cur.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			inTok = true
		case unicode.IsSpace(r):
			if inTok {
				tokens = append(tokens, cur.String())
				cur.Reset()

				inTok = false
			}
		default:
			cur.WriteRune(r)

			inTok = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("%w in %q", ErrUnterminatedQuote, line)
	}

	if inTok {
		tokens = append(tokens, cur.String())
	}

	return tokens, nil
}
