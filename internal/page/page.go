// Package page holds the todo list as the TUI shows it: rows of checkboxes
// and links, which element has focus, and the notification panel.
package page

import (
	"fmt"
	"net/url"

	"github.com/studiowebux/todoui/internal/focus"
	"github.com/studiowebux/todoui/internal/types"
)

// Element classes
const (
	ClassNavigable = "navigable-elem"
	ClassContext   = "todo-context"
	ClassProject   = "todo-project"
)

// Kind distinguishes inputs from links
type Kind int

const (
	KindCheckbox Kind = iota
	KindLink
)

// Element is a focusable part of a row
type Element struct {
	id      string
	Kind    Kind
	Classes []string
	// Value holds the todo hash for checkboxes
	Value   string
	Checked bool
	// Href is a URL, or a context/project name for filter links
	Href string
	Text string
	row  *Row
}

// ID implements focus.Element
func (e *Element) ID() string { return e.id }

// HasClass reports whether e carries class c
func (e *Element) HasClass(c string) bool {
	for _, cl := range e.Classes {
		if cl == c {
			return true
		}
	}
	return false
}

// IsInput reports whether e is a checkbox
func (e *Element) IsInput() bool { return e.Kind == KindCheckbox }

// IsFilterLink reports whether e is a context or project link
func (e *Element) IsFilterLink() bool {
	return e.HasClass(ClassContext) || e.HasClass(ClassProject)
}

// Row returns the row containing e
func (e *Element) Row() *Row { return e.row }

// Query returns the list query a filter link leads to
func (e *Element) Query() (types.TodoQuery, bool) {
	switch {
	case e.HasClass(ClassContext):
		return types.TodoQuery{Context: e.Href}, true
	case e.HasClass(ClassProject):
		return types.TodoQuery{Project: e.Href}, true
	}
	return types.TodoQuery{}, false
}

// Row is one todo: its checkbox followed by its links
type Row struct {
	Todo     types.TodoView
	Checkbox *Element
	Links    []*Element
	// Done mirrors the checkbox state for styling
	Done bool
}

// Notification is the dismissible message panel
type Notification struct {
	Message string
	Visible bool
}

// Document is the page the TUI renders
type Document struct {
	rows         []*Row
	elements     []*Element
	focused      *Element
	notification Notification
	query        types.TodoQuery
}

// New builds a document from todos returned for query
func New(todos []types.TodoView, query types.TodoQuery) *Document {
	d := &Document{}
	d.Load(todos, query)
	return d
}

// Load replaces the page content. Focus is lost, as on a page reload;
// the notification panel is kept.
func (d *Document) Load(todos []types.TodoView, query types.TodoQuery) {
	d.rows = nil
	d.elements = nil
	d.focused = nil
	d.query = query

	for i, todo := range todos {
		row := &Row{Todo: todo, Done: todo.Finished}
		row.Checkbox = &Element{
			id:      fmt.Sprintf("todo-%d", i),
			Kind:    KindCheckbox,
			Classes: []string{ClassNavigable},
			Value:   todo.Hash,
			Checked: todo.Finished,
			Text:    todo.Subject,
			row:     row,
		}
		d.elements = append(d.elements, row.Checkbox)

		add := func(href, text string, classes ...string) {
			el := &Element{
				id:      fmt.Sprintf("todo-%d-link-%d", i, len(row.Links)),
				Kind:    KindLink,
				Classes: classes,
				Href:    href,
				Text:    text,
				row:     row,
			}
			row.Links = append(row.Links, el)
			d.elements = append(d.elements, el)
		}

		for _, link := range todo.Links {
			add(link, link)
		}
		for _, c := range todo.Contexts {
			add(c, "@"+c, ClassContext, ClassNavigable)
		}
		for _, p := range todo.Projects {
			add(p, "+"+p, ClassProject, ClassNavigable)
		}

		d.rows = append(d.rows, row)
	}
}

// Rows returns the rows in display order
func (d *Document) Rows() []*Row { return d.rows }

// Query returns the filter the page was loaded with
func (d *Document) Query() types.TodoQuery { return d.query }

// Navigable implements focus.Provider
func (d *Document) Navigable() []focus.Element {
	var out []focus.Element
	for _, el := range d.elements {
		if el.HasClass(ClassNavigable) {
			out = append(out, el)
		}
	}
	return out
}

// Focused implements focus.Provider
func (d *Document) Focused() focus.Element {
	if d.focused == nil {
		return nil
	}
	return d.focused
}

// Focus implements focus.Provider
func (d *Document) Focus(e focus.Element) {
	if e == nil {
		d.focused = nil
		return
	}
	for _, el := range d.elements {
		if el.ID() == e.ID() {
			d.focused = el
			return
		}
	}
}

// FocusedElement returns the focused element, or nil
func (d *Document) FocusedElement() *Element { return d.focused }

// FocusedIndex returns the position of the focused element's row, or -1
func (d *Document) FocusedIndex() int {
	if d.focused == nil {
		return -1
	}
	for i, row := range d.rows {
		if row == d.focused.row {
			return i
		}
	}
	return -1
}

// SetChecked changes a checkbox, as a change event would
func (d *Document) SetChecked(e *Element, checked bool) {
	if e == nil || !e.IsInput() {
		return
	}
	e.Checked = checked
	e.row.Done = checked
}

// ReplaceHash makes checkbox e hold the hash the server confirmed.
// An empty hash leaves the element unchanged.
func (d *Document) ReplaceHash(e *Element, newHash string) bool {
	if e == nil || !e.IsInput() || newHash == "" {
		return false
	}
	e.Value = newHash
	e.row.Todo.Hash = newHash
	return true
}

// FollowableLink returns the first link of e's row that is neither a
// context nor a project link. Only checkboxes have one.
func (d *Document) FollowableLink(e *Element) *Element {
	if e == nil || !e.IsInput() {
		return nil
	}
	for _, link := range e.row.Links {
		if !link.IsFilterLink() {
			return link
		}
	}
	return nil
}

// ShowNotification displays message in the notification panel
func (d *Document) ShowNotification(message string) {
	d.notification = Notification{Message: message, Visible: true}
}

// DismissNotification hides the panel
func (d *Document) DismissNotification() bool {
	if !d.notification.Visible {
		return false
	}
	d.notification.Visible = false
	return true
}

// Notification returns the panel state
func (d *Document) Notification() Notification { return d.notification }

// Href renders a filter query the way the server accepts it
func Href(q types.TodoQuery) string {
	v := url.Values{}
	if q.Context != "" {
		v.Set("context", q.Context)
	}
	if q.Project != "" {
		v.Set("project", q.Project)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	if q.Fuzzy {
		v.Set("fuzzy", "true")
	}
	if len(v) == 0 {
		return "/todos"
	}
	return "/todos?" + v.Encode()
}
