// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// FormatPath renders a cty.Path in the dotted form used by findings, e.g.
// "asset.network.roles.Sender" or "inputs[2].scale_value".
func FormatPath(p cty.Path) string {
	var b strings.Builder
	for _, step := range p {
		switch s := step.(type) {
		case cty.GetAttrStep:
			writeName(&b, s.Name)
		case cty.IndexStep:
			key := s.Key
			switch {
			case key.IsNull() || !key.IsKnown():
				b.WriteString("[?]")
			case key.Type() == cty.String:
				writeName(&b, key.AsString())
			case key.Type() == cty.Number:
				i, _ := key.AsBigFloat().Int64()
				b.WriteString("[" + strconv.FormatInt(i, 10) + "]")
			default:
				b.WriteString("[?]")
			}
		}
	}
	return b.String()
}

// Join appends elements to a dotted path. Strings become attribute steps and
// ints become index steps.
func Join(base string, elems ...any) string {
	var b strings.Builder
	b.WriteString(base)
	for _, e := range elems {
		switch v := e.(type) {
		case int:
			b.WriteString("[" + strconv.Itoa(v) + "]")
		case string:
			writeName(&b, v)
		default:
			writeName(&b, fmt.Sprint(v))
		}
	}
	return b.String()
}

func writeName(b *strings.Builder, name string) {
	if b.Len() > 0 {
		b.WriteByte('.')
	}
	b.WriteString(name)
}
