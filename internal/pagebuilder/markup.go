// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagebuilder

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrMalformedMarkup is returned when a fragment is not well formed.
var ErrMalformedMarkup = errors.New("malformed markup")

// voidElements never take an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// CheckWellFormed reports whether markup has balanced tags: every non-void
// start tag closed by a matching end tag in order, no stray end tags and no
// self-closing syntax on non-void HTML elements. Content of raw text
// elements (script, style, textarea, title) is not inspected.
func CheckWellFormed(markup string) error {
	z := html.NewTokenizer(strings.NewReader(markup))
	var open []string

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				if len(open) > 0 {
					return fmt.Errorf("%w: <%s> is never closed", ErrMalformedMarkup, open[len(open)-1])
				}
				return nil
			}
			return fmt.Errorf("%w: %v", ErrMalformedMarkup, z.Err())

		case html.StartTagToken:
			tag := tagName(z)
			if !voidElements[tag] {
				open = append(open, tag)
			}

		case html.SelfClosingTagToken:
			tag := tagName(z)
			if !voidElements[tag] && !inForeignContent(open) && tag != "svg" && tag != "math" {
				return fmt.Errorf("%w: <%s/> is not a void element", ErrMalformedMarkup, tag)
			}

		case html.EndTagToken:
			tag := tagName(z)
			if len(open) == 0 {
				return fmt.Errorf("%w: unexpected </%s>", ErrMalformedMarkup, tag)
			}
			if top := open[len(open)-1]; top != tag {
				return fmt.Errorf("%w: </%s> closes <%s>", ErrMalformedMarkup, tag, top)
			}
			open = open[:len(open)-1]
		}
	}
}

func tagName(z *html.Tokenizer) string {
	name, _ := z.TagName()
	return string(name)
}

// inForeignContent reports whether an svg or math element is open, which
// makes self-closing tags legal.
func inForeignContent(open []string) bool {
	for _, tag := range open {
		if tag == "svg" || tag == "math" {
			return true
		}
	}
	return false
}
