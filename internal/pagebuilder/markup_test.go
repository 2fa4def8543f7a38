// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagebuilder

import (
	"errors"
	"testing"
)

func TestCheckWellFormed(t *testing.T) {
	tests := []struct {
		markup string
		ok     bool
	}{
		{``, true},
		{`plain text`, true},
		{`<p>Hi</p>`, true},
		{`<div><br><img src="a.png"/></div>`, true},
		{`<DIV>upper</div>`, true},
		{`<svg><circle r="1"/></svg>`, true},
		{`<svg/>`, true},
		{`<script>if (a < b && c) {}</script>`, true},
		{`<!DOCTYPE html><p>x</p>`, true},
		{`<div>`, false},
		{`</div>`, false},
		{`<div><span></div></span>`, false},
		{`<div/>`, false},
		{`<p>one<p>two</p>`, false},
		{`<br></br>`, false},
	}

	for _, tt := range tests {
		err := CheckWellFormed(tt.markup)
		if tt.ok && err != nil {
			t.Errorf("CheckWellFormed(%q) = %v, want nil", tt.markup, err)
		}
		if !tt.ok && !errors.Is(err, ErrMalformedMarkup) {
			t.Errorf("CheckWellFormed(%q) = %v, want ErrMalformedMarkup", tt.markup, err)
		}
	}
}
