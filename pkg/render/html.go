package render

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/slotframe/pkg/compose"
	"github.com/matzehuels/slotframe/pkg/core/style"
)

// IssueClass marks the alert box emitted for a node with an authoring issue.
const IssueClass = "slotframe-issue"

// HTML renders the markup skeleton of doc. Each root placeholder becomes a
// <section data-placeholder="...">. With standalone set the sections are
// wrapped in a complete HTML document.
func HTML(doc *compose.Document, standalone bool) ([]byte, error) {
	var roots []*html.Node
	for _, ph := range doc.Placeholders {
		sec := element(atom.Section, attr("data-placeholder", ph.Name))
		appendNodes(sec, ph.Nodes)
		roots = append(roots, sec)
	}

	var buf bytes.Buffer
	if standalone {
		if err := html.Render(&buf, document(doc, roots)); err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}
	for _, n := range roots {
		if err := html.Render(&buf, n); err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func document(doc *compose.Document, body []*html.Node) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := element(atom.Html)
	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	title := element(atom.Title)
	title.AppendChild(text(pageTitle(doc)))
	head.AppendChild(title)

	bodyEl := element(atom.Body, attr("data-page", doc.Page))
	for _, n := range body {
		bodyEl.AppendChild(n)
	}

	htmlEl.AppendChild(head)
	htmlEl.AppendChild(bodyEl)
	root.AppendChild(htmlEl)
	return root
}

func pageTitle(doc *compose.Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	return doc.Page
}

func appendNodes(parent *html.Node, nodes []compose.Node) {
	for _, n := range nodes {
		parent.AppendChild(nodeHTML(n))
	}
}

func nodeHTML(n compose.Node) *html.Node {
	if n.Issue != nil && n.Tree == nil {
		return issueBox(n)
	}
	if n.Tree == nil {
		el := element(atom.Div, attr("data-component", n.Component))
		if n.Issue != nil {
			el.AppendChild(issueBox(n))
		}
		return el
	}

	attrs := []html.Attribute{}
	if n.Tree.ContainerID != "" {
		attrs = append(attrs, attr("id", n.Tree.ContainerID))
	}
	attrs = append(attrs,
		attr("class", style.Join(n.Tree.ClassList())),
		attr("data-variant", n.Tree.Variant),
		attr("data-component", n.Component),
	)
	container := element(atom.Div, attrs...)

	for _, s := range n.Slots {
		region := element(atom.Div,
			attr("class", style.Join(s.Region.Tokens)),
			attr("data-slot", s.Region.SlotKey),
			attr("data-size", s.Region.Size.String()),
		)
		appendNodes(region, s.Children)
		container.AppendChild(region)
	}
	return container
}

func issueBox(n compose.Node) *html.Node {
	box := element(atom.Div,
		attr("class", IssueClass),
		attr("role", "alert"),
		attr("data-level", string(n.Issue.Level)),
		attr("data-component", n.Component),
	)
	strong := element(atom.Strong)
	strong.AppendChild(text(n.Component))
	box.AppendChild(strong)
	box.AppendChild(text(": " + n.Issue.Message))
	return box
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
