package model

import (
	"strings"
)

// Size is an effort classification for a task
type Size string

const (
	SizeNone Size = "None" // unselected sentinel, keeps the field printable
	SizeXS   Size = "XS"
	SizeS    Size = "S"
	SizeM    Size = "M"
	SizeL    Size = "L"
	SizeXL   Size = "XL"
)

// sizePlaceholder is the label an untouched size picker shows
const sizePlaceholder = "Size"

// Sizes returns the selectable sizes in display order, without the sentinel
func Sizes() []Size {
	return []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL}
}

// ParseSize converts user input into a Size.
// Empty input and the picker placeholder map to SizeNone.
func ParseSize(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, sizePlaceholder) || strings.EqualFold(s, string(SizeNone)) {
		return SizeNone, nil
	}
	for _, size := range Sizes() {
		if strings.EqualFold(s, string(size)) {
			return size, nil
		}
	}
	return SizeNone, &ValidationError{
		Field:   "size",
		Message: "must be one of XS, S, M, L, XL",
	}
}

// IsValid returns true for the sentinel and every selectable size
func (s Size) IsValid() bool {
	if s == SizeNone {
		return true
	}
	for _, size := range Sizes() {
		if s == size {
			return true
		}
	}
	return false
}

// Next returns the size after s, cycling through None
func (s Size) Next() Size {
	all := append([]Size{SizeNone}, Sizes()...)
	for i, size := range all {
		if size == s {
			return all[(i+1)%len(all)]
		}
	}
	return SizeNone
}

// Prev returns the size before s, cycling through None
func (s Size) Prev() Size {
	all := append([]Size{SizeNone}, Sizes()...)
	for i, size := range all {
		if size == s {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return SizeNone
}

// String returns the display label
func (s Size) String() string {
	if s == "" {
		return string(SizeNone)
	}
	return string(s)
}
