package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/slotframe/pkg/compose"
)

// DOT converts a composed page to a Graphviz diagram of its slot tree.
// Layouts are rounded boxes, slots are dashed boxes labelled with their key
// and size, and content components are plain boxes. Nodes with authoring
// issues are filled red.
func DOT(doc *compose.Document) string {
	w := &dotWriter{}
	w.line("digraph G {")
	w.line("  rankdir=LR;")
	w.line("  bgcolor=\"transparent\";")
	w.line("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];")
	w.line("  edge [arrowsize=0.6];")
	w.line("")

	root := w.node(doc.Page, "shape=folder", "fillcolor=\"#e8eefc\"")
	for _, ph := range doc.Placeholders {
		id := w.node(ph.Name, "shape=tab", "fillcolor=\"#f2f2f2\"")
		w.edge(root, id)
		w.nodes(id, ph.Nodes)
	}

	w.line("}")
	return w.buf.String()
}

type dotWriter struct {
	buf  bytes.Buffer
	next int
}

func (w *dotWriter) line(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *dotWriter) node(label string, attrs ...string) string {
	id := "n" + strconv.Itoa(w.next)
	w.next++
	all := append([]string{fmt.Sprintf("label=%q", label)}, attrs...)
	fmt.Fprintf(&w.buf, "  %s [%s];\n", id, strings.Join(all, ", "))
	return id
}

func (w *dotWriter) edge(from, to string) {
	fmt.Fprintf(&w.buf, "  %s -> %s;\n", from, to)
}

func (w *dotWriter) nodes(parent string, nodes []compose.Node) {
	for _, n := range nodes {
		id := w.node(nodeLabel(n), nodeAttrs(n)...)
		w.edge(parent, id)
		for _, s := range n.Slots {
			sid := w.node(s.Region.SlotKey+"\n"+s.Region.Size.String(), "style=\"rounded,dashed\"")
			w.edge(id, sid)
			w.nodes(sid, s.Children)
		}
	}
}

func nodeLabel(n compose.Node) string {
	label := n.Component
	if n.Variant != "" {
		label += "\n" + n.Variant
	}
	if n.Issue != nil {
		label += "\n" + n.Issue.Message
	}
	return label
}

func nodeAttrs(n compose.Node) []string {
	switch {
	case n.Issue != nil && n.Issue.Level == compose.LevelError:
		return []string{"fillcolor=\"#fde2e2\"", "color=\"#c0392b\""}
	case n.Issue != nil:
		return []string{"fillcolor=\"#fff4d6\""}
	case n.Tree != nil:
		return []string{"fillcolor=\"#e9f7ef\""}
	}
	return []string{"shape=note"}
}

// SVG renders DOT source to SVG using Graphviz.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
