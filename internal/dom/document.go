package dom

import (
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alexisbeaulieu97/tessera/internal/events"
)

// StyleElementID is the id of the <style> element holding the compiled sheet.
const StyleElementID = "tessera-styles"

// Document is an HTML document plus the listener tables of its elements.
// Listener tables live beside the node tree so elements stay plain html.Nodes.
type Document struct {
	mu     sync.Mutex
	node   *html.Node
	head   *html.Node
	body   *html.Node
	tables map[*html.Node]*events.Table
}

// NewDocument builds an empty <html><head></head><body></body></html> tree.
func NewDocument() *Document {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := NewElement("html")
	head := NewElement("head")
	body := NewElement("body")
	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)
	return &Document{
		node:   doc,
		head:   head,
		body:   body,
		tables: make(map[*html.Node]*events.Table),
	}
}

// Node returns the document node. Listeners registered on it see every
// bubbling event of attached elements.
func (d *Document) Node() *html.Node { return d.node }

// Head returns the <head> element.
func (d *Document) Head() *html.Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.body }

// Listen registers a listener for typ on n.
func (d *Document) Listen(n *html.Node, typ string, listener events.Listener) events.ID {
	d.mu.Lock()
	table, ok := d.tables[n]
	if !ok {
		table = events.NewTable()
		d.tables[n] = table
	}
	d.mu.Unlock()
	return table.On(typ, listener)
}

// Unlisten removes listeners from n; see events.Table.Off.
func (d *Document) Unlisten(n *html.Node, typ string, ids ...events.ID) {
	d.mu.Lock()
	table := d.tables[n]
	d.mu.Unlock()
	table.Off(typ, ids...)
}

// Forget drops the listener tables of n and its descendants.
func (d *Document) Forget(n *html.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		delete(d.tables, node)
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
}

// ForgetNode drops the listener table of n alone; descendants keep theirs.
func (d *Document) ForgetNode(n *html.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.tables, n)
}

// Listeners reports how many listeners of typ are registered on n.
func (d *Document) Listeners(n *html.Node, typ string) int {
	d.mu.Lock()
	table := d.tables[n]
	d.mu.Unlock()
	return table.Len(typ)
}

// Dispatch fires typ at target and bubbles it through the ancestors until a
// listener stops propagation or returns an error.
func (d *Document) Dispatch(target *html.Node, typ string, detail any) (*events.Event, error) {
	evt := events.New(typ, target, detail)
	for n := target; n != nil; n = n.Parent {
		d.mu.Lock()
		table := d.tables[n]
		d.mu.Unlock()
		if table == nil {
			continue
		}
		evt.CurrentTarget = n
		if err := table.Trigger(evt); err != nil {
			return evt, err
		}
		if evt.Stopped() {
			break
		}
	}
	return evt, nil
}

// SetStyleSheet writes css into the document's style element, creating it on
// first use.
func (d *Document) SetStyleSheet(css string) {
	var style *html.Node
	for c := d.head.FirstChild; c != nil; c = c.NextSibling {
		if id, _ := Attr(c, "id"); c.DataAtom == atom.Style && id == StyleElementID {
			style = c
			break
		}
	}
	if style == nil {
		style = NewElement("style")
		SetAttr(style, "id", StyleElementID)
		d.head.AppendChild(style)
	}
	SetText(style, css)
}

// Render serializes the whole document.
func (d *Document) Render() (string, error) {
	return Render(d.node)
}
