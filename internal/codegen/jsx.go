// Package codegen renders a scene as a React component using Tailwind
// classes. The layout is approximate: elements are stacked in rows by
// their vertical position.
package codegen

import (
	"cmp"
	"fmt"
	"html"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/ideaspark/wireframe/internal/scene"
)

// RowThreshold is the largest vertical distance from a row's average top
// at which an element still joins that row.
const RowThreshold = 50

// JSX returns the component source for a page named name.
func JSX(name string, s scene.Scene) string {
	if len(s.Elements) == 0 {
		return "// No elements on this page\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Generated code for %q\n", name)
	b.WriteString("import React from 'react';\n\n")
	fmt.Fprintf(&b, "export default function %s() {\n", componentName(name))
	b.WriteString("  return (\n")
	b.WriteString("    <div className=\"container mx-auto\">\n")
	writeRows(&b, s.Elements, 3)
	b.WriteString("    </div>\n")
	b.WriteString("  );\n")
	b.WriteString("}\n")
	return b.String()
}

// Rows groups elements top to bottom, each row ordered left to right.
func Rows(elements []scene.Element) [][]scene.Element {
	sorted := slices.Clone(elements)
	slices.SortStableFunc(sorted, func(a, b scene.Element) int {
		return cmp.Compare(a.Bounds.Y, b.Bounds.Y)
	})

	var rows [][]scene.Element
	for _, el := range sorted {
		idx := slices.IndexFunc(rows, func(row []scene.Element) bool {
			return math.Abs(el.Bounds.Y-averageTop(row)) < RowThreshold
		})
		if idx < 0 {
			rows = append(rows, []scene.Element{el})
			continue
		}
		rows[idx] = append(rows[idx], el)
	}
	for _, row := range rows {
		slices.SortStableFunc(row, func(a, b scene.Element) int {
			return cmp.Compare(a.Bounds.X, b.Bounds.X)
		})
	}
	return rows
}

func averageTop(row []scene.Element) float64 {
	var sum float64
	for _, el := range row {
		sum += el.Bounds.Y
	}
	return sum / float64(len(row))
}

func writeRows(b *strings.Builder, elements []scene.Element, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, row := range Rows(elements) {
		fmt.Fprintf(b, "%s<div className=\"flex flex-wrap my-4\">\n", indent)
		for _, el := range row {
			writeElement(b, el, depth+1)
		}
		fmt.Fprintf(b, "%s</div>\n", indent)
	}
}

func writeElement(b *strings.Builder, el scene.Element, depth int) {
	in := strings.Repeat("  ", depth)
	line := func(format string, args ...any) {
		b.WriteString(in)
		fmt.Fprintf(b, format, args...)
		b.WriteByte('\n')
	}
	w, h := el.Bounds.Width, el.Bounds.Height

	switch a := el.Attrs.(type) {
	case scene.Text:
		line(`<div className="px-4">`)
		if a.FontSize >= 20 {
			line(`  <h2 className="text-xl font-bold">%s</h2>`, text(a.Content, "Heading"))
		} else {
			line(`  <p className="text-base">%s</p>`, text(a.Content, "Text content"))
		}
		line(`</div>`)

	case scene.Shape:
		switch {
		case w > 400 && h < 100:
			line(`<div className="w-full bg-gray-100 p-4">`)
			line(`  <h2 className="text-lg font-semibold">Section Heading</h2>`)
			line(`</div>`)
		case w < 200 && h < 60:
			line(`<div className="px-4">`)
			line(`  <button className="bg-blue-600 text-white px-4 py-2 rounded">Button</button>`)
			line(`</div>`)
		default:
			line(`<div className="bg-white border rounded shadow p-4" style={{ width: %s }}>`, px(w))
			line(`  <div className="h-%d"></div>`, max(4, int(math.Floor(h/16))))
			line(`</div>`)
		}

	case scene.Button:
		line(`<div className="px-4">`)
		line(`  <button className="bg-blue-600 text-white px-4 py-2 rounded">%s</button>`, text(a.Label, "Button"))
		line(`</div>`)

	case scene.Image:
		line(`<div className="px-4">`)
		if a.Src == "" {
			line(`  <div className="bg-gray-200 rounded" style={{ width: %s, height: %s }}></div>`, px(w), px(h))
		} else {
			line(`  <img src=%q alt=%q className="rounded" style={{ width: %s, height: %s }} />`, a.Src, a.Alt, px(w), px(h))
		}
		line(`</div>`)

	case scene.Card:
		line(`<div className="bg-white border rounded shadow p-4" style={{ width: %s }}>`, px(w))
		if a.Title != "" {
			line(`  <h3 className="text-lg font-semibold">%s</h3>`, text(a.Title, ""))
		}
		if a.Body != "" {
			line(`  <p className="text-sm text-gray-600">%s</p>`, text(a.Body, ""))
		}
		if a.Title == "" && a.Body == "" {
			line(`  <div className="h-%d"></div>`, max(4, int(math.Floor(h/16))))
		}
		line(`</div>`)

	case scene.Section:
		line(`<section className="w-full bg-gray-100 p-4">`)
		line(`  <h2 className="text-lg font-semibold">%s</h2>`, text(a.Title, "Section Heading"))
		line(`</section>`)

	case scene.Line:
		line(`<hr className="w-full my-4 border-gray-300" />`)

	case scene.Group:
		line(`<div className="w-full">`)
		writeRows(b, el.Children, depth+1)
		line(`</div>`)

	default:
		line(`<div className="px-4">`)
		line(`  <div className="bg-gray-200 rounded h-16 w-16"></div>`)
		line(`</div>`)
	}
}

// text escapes s for use as JSX children.
func text(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		s = fallback
	}
	s = html.EscapeString(s)
	s = strings.NewReplacer("{", "{'{'}", "}", "{'}'}", "\n", "<br />").Replace(s)
	return s
}

func px(v float64) string {
	return fmt.Sprintf("'%gpx'", math.Round(v))
}

func componentName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return "Page"
	}
	if first := []rune(out)[0]; !unicode.IsLetter(first) {
		out = "Page" + out
	}
	return out
}
