// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package search

// Selection tracks the highlighted entry of a quick-search result list.
// Index -1 means nothing is highlighted. Movement clamps at both ends.
type Selection struct {
	Index int
	Count int
}

// NewSelection returns a selection over count results with nothing highlighted.
func NewSelection(count int) Selection {
	return Selection{Index: -1, Count: count}
}

// Reset clears the highlight for a new result list.
func (s *Selection) Reset(count int) {
	s.Index = -1
	s.Count = count
}

// Down moves the highlight one entry down, stopping at the last result.
func (s *Selection) Down() {
	if s.Index < s.Count-1 {
		s.Index++
	}
}

// Up moves the highlight one entry up, stopping at -1.
func (s *Selection) Up() {
	if s.Index > -1 {
		s.Index--
	}
}

// Key applies a keyboard key name as sent by the browser.
// Unrecognised keys leave the selection unchanged.
func (s *Selection) Key(key string) {
	switch key {
	case "ArrowDown":
		s.Down()
	case "ArrowUp":
		s.Up()
	case "Escape":
		s.Index = -1
	}
}

// Clamp restores the invariant -1 <= Index <= Count-1, e.g. after the
// index was read from a request parameter.
func (s *Selection) Clamp() {
	if s.Index < -1 {
		s.Index = -1
	}
	if s.Index > s.Count-1 {
		s.Index = s.Count - 1
	}
}

// Selected reports whether result i is highlighted.
func (s Selection) Selected(i int) bool {
	return s.Index >= 0 && s.Index == i
}
