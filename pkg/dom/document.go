// Package dom provides document and window roots for the test environment.
//
// Document wraps a golang.org/x/net/html tree and exposes the body-level
// operations the harness needs: seeding markup, clearing residual nodes
// between tests, and inspecting what a component rendered. Window is the
// browser-like root that carries the document plus the capabilities the
// environment attaches to it.
package dom

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is an in-memory HTML document with a guaranteed <body>.
// All methods are safe for concurrent use.
type Document struct {
	mu   sync.RWMutex
	root *html.Node
	body *html.Node
}

// NewDocument returns an empty document: html > head + body, no body children.
func NewDocument() *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlNode := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	head := &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	htmlNode.AppendChild(head)
	htmlNode.AppendChild(body)
	root.AppendChild(htmlNode)
	return &Document{root: root, body: body}
}

// SetBody replaces the body's children with the parsed fragment.
func (d *Document) SetBody(fragment string) error {
	nodes, err := d.parseFragment(fragment)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	removeChildren(d.body)
	for _, n := range nodes {
		d.body.AppendChild(n)
	}
	return nil
}

// AppendBody parses the fragment and appends it after the existing children.
func (d *Document) AppendBody(fragment string) error {
	nodes, err := d.parseFragment(fragment)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range nodes {
		d.body.AppendChild(n)
	}
	return nil
}

func (d *Document) parseFragment(fragment string) ([]*html.Node, error) {
	// The context node determines the parsing rules; fragments are always
	// interpreted as body content.
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	return nodes, nil
}

// ClearBody removes every child of the body. Clearing an empty body is a
// no-op, so repeated calls are safe.
func (d *Document) ClearBody() {
	d.mu.Lock()
	removeChildren(d.body)
	d.mu.Unlock()
}

// BodyEmpty reports whether the body has no children at all.
func (d *Document) BodyEmpty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.body.FirstChild == nil
}

// CountBodyNodes returns the number of direct children of the body.
func (d *Document) CountBodyNodes() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for c := d.body.FirstChild; c != nil; c = c.NextSibling {
		n++
	}
	return n
}

// BodyHTML renders the body's children back to markup.
func (d *Document) BodyHTML() (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var sb strings.Builder
	for c := d.body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return "", fmt.Errorf("rendering body: %w", err)
		}
	}
	return sb.String(), nil
}

// BodyText returns the concatenated text content of the body subtree.
func (d *Document) BodyText() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var sb strings.Builder
	collectText(d.body, &sb)
	return sb.String()
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
