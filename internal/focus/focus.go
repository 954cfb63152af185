// Package focus moves keyboard focus through an ordered, cyclic list of elements.
package focus

// Element is anything that can hold focus. Elements are compared by ID.
type Element interface {
	ID() string
}

// Provider supplies the navigable elements. Navigable is queried on every
// move, so the list may change between calls.
type Provider interface {
	Navigable() []Element
	Focused() Element
	Focus(Element)
}

// Resolve maps a target index onto a list of length elements.
// Targets below -1 are raised to -1 first, so stepping back from
// "nothing focused" lands on the last element. Reports false for an empty list.
func Resolve(target, length int) (int, bool) {
	if length <= 0 {
		return 0, false
	}
	if target < -1 {
		target = -1
	}
	return ((target % length) + length) % length, true
}

// IndexOf returns the position of e in elems, or -1
func IndexOf(elems []Element, e Element) int {
	if e == nil {
		return -1
	}
	id := e.ID()
	for i, el := range elems {
		if el.ID() == id {
			return i
		}
	}
	return -1
}

// Navigator moves focus over a Provider
type Navigator struct {
	provider Provider
}

// NewNavigator creates a navigator over p
func NewNavigator(p Provider) *Navigator {
	return &Navigator{provider: p}
}

// MoveFocus moves focus by delta positions, wrapping at both ends
func (n *Navigator) MoveFocus(delta int) bool {
	return n.navigate(func(_, current int) int { return current + delta })
}

// MoveToFirst focuses the first element
func (n *Navigator) MoveToFirst() bool {
	return n.navigate(func(_, _ int) int { return 0 })
}

// MoveToLast focuses the last element
func (n *Navigator) MoveToLast() bool {
	return n.navigate(func(length, _ int) int { return length - 1 })
}

// navigate focuses the element at target(length, current). It reports false
// and changes nothing when there are no navigable elements.
func (n *Navigator) navigate(target func(length, current int) int) bool {
	elems := n.provider.Navigable()
	current := IndexOf(elems, n.provider.Focused())

	idx, ok := Resolve(target(len(elems), current), len(elems))
	if !ok {
		return false
	}
	n.provider.Focus(elems[idx])
	return true
}
