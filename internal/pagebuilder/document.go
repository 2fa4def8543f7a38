// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pagebuilder mutates page section markup: it parses a stored HTML
// fragment into a tree, splices component markup into a container element
// and serializes the result back.
package pagebuilder

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrContainerNotFound is returned by AddElement when no element carries the
// requested id. The document is left unchanged.
var ErrContainerNotFound = errors.New("container element not found")

// Insertion records one successful AddElement call.
type Insertion struct {
	OwnerID     int64
	ContainerID string
	Nodes       int
}

// Document is a parsed HTML fragment.
type Document struct {
	root       *html.Node
	insertions []Insertion
}

// NewDocument parses fragment as the content of a <body> element.
func NewDocument(fragment string) (*Document, error) {
	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

	nodes, err := parseFragment(fragment, root)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	return &Document{root: root}, nil
}

// AddElement parses elementMarkup in the context of the element whose id is
// containerElementID and appends the resulting nodes as its last children.
// The first matching element in depth-first document order is used.
// ownerID identifies the section the markup is added on behalf of; it is
// kept in the insertion log and never written into the markup.
//
// Markup the parser would move out of the container when the document is
// read back, such as a <div> inside a <p> or nested <a> elements, is
// rejected with ErrMalformedMarkup and the document is left unchanged.
func (d *Document) AddElement(ownerID int64, containerElementID, elementMarkup string) error {
	container := d.findByID(containerElementID)
	if container == nil {
		return fmt.Errorf("%w: %q", ErrContainerNotFound, containerElementID)
	}

	nodes, err := parseFragment(elementMarkup, container)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	if err := d.checkStable(); err != nil {
		for _, n := range nodes {
			container.RemoveChild(n)
		}
		return fmt.Errorf("adding to %q: %w", containerElementID, err)
	}

	d.insertions = append(d.insertions, Insertion{
		OwnerID:     ownerID,
		ContainerID: containerElementID,
		Nodes:       len(nodes),
	})
	return nil
}

// Insertions returns the AddElement calls applied to the document.
func (d *Document) Insertions() []Insertion {
	return append([]Insertion(nil), d.insertions...)
}

// OuterHTML serializes the fragment. Attribute order is preserved and void
// elements are written as <br/>, so a serialized fragment re-parses and
// re-serializes to the same bytes.
func (d *Document) OuterHTML() string {
	var sb strings.Builder
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		// Rendering into a strings.Builder cannot fail for a parsed tree.
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

// checkStable reports an error when the serialized document parses back
// into a different tree.
func (d *Document) checkStable() error {
	rendered := d.OuterHTML()
	reparsed, err := NewDocument(rendered)
	if err != nil {
		return err
	}
	if again := reparsed.OuterHTML(); again != rendered {
		return fmt.Errorf("%w: serialized as %q but reads back as %q", ErrMalformedMarkup, rendered, again)
	}
	return nil
}

func (d *Document) findByID(id string) *html.Node {
	if id == "" {
		return nil
	}

	var find func(n *html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && attr(c, "id") == id {
				return c
			}
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}

	return find(d.root)
}

func parseFragment(markup string, context *html.Node) ([]*html.Node, error) {
	if err := CheckWellFormed(markup); err != nil {
		return nil, err
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMarkup, err)
	}
	return nodes, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
