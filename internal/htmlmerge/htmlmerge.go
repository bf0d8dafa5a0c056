// Package htmlmerge combines several HTML documents into one.
package htmlmerge

import (
	"bytes"
	"fmt"

	"github.com/mcncl/jsonkit/internal/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is one named HTML input.
type Document struct {
	Name string
	Data []byte
}

// Merge appends the body content of every document to the body of the first,
// in input order. Head elements of later documents are copied unless an
// identical element is already present.
func Merge(docs []Document) ([]byte, error) {
	if len(docs) == 0 {
		return nil, errors.NewValidationError("no documents to merge", errors.ErrNoInput)
	}

	base, err := parse(docs[0])
	if err != nil {
		return nil, err
	}
	head, body := find(base, atom.Head), find(base, atom.Body)
	if head == nil || body == nil {
		return nil, errors.NewParsingError(fmt.Sprintf("'%s': document has no head or body", docs[0].Name), errors.ErrInvalidHTML)
	}

	seen := make(map[string]bool)
	for _, n := range children(head) {
		seen[render(n)] = true
	}

	for _, doc := range docs[1:] {
		root, err := parse(doc)
		if err != nil {
			return nil, err
		}
		if h := find(root, atom.Head); h != nil {
			for _, n := range children(h) {
				key := render(n)
				if seen[key] {
					continue
				}
				seen[key] = true
				h.RemoveChild(n)
				head.AppendChild(n)
			}
		}
		if b := find(root, atom.Body); b != nil {
			for _, n := range children(b) {
				b.RemoveChild(n)
				body.AppendChild(n)
			}
		}
	}

	var out bytes.Buffer
	if err := html.Render(&out, base); err != nil {
		return nil, errors.NewOutputError("failed to render merged HTML", err)
	}
	return out.Bytes(), nil
}

func parse(doc Document) (*html.Node, error) {
	root, err := html.Parse(bytes.NewReader(doc.Data))
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("'%s': %v", doc.Name, err), errors.ErrInvalidHTML)
	}
	return root, nil
}

// find returns the first element with the given tag, depth first.
func find(n *html.Node, tag atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// children snapshots the child list so nodes can be moved while iterating.
func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func render(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}
