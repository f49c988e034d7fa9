package provider

import (
	"errors"
	"strings"
)

// ErrInvalidOrDuplicateSlot is returned when a candidate slot label is blank
// after trimming or already present in the list.
var ErrInvalidOrDuplicateSlot = errors.New("invalid or duplicate slot")

// SlotList accumulates slot labels while an admin assembles a registration.
// Labels are compared by exact string identity; no trimming or case folding
// is applied to stored entries.
type SlotList []string

// Add appends candidate and returns the extended list. On rejection the
// original list is returned unchanged so callers can keep rendering it.
func (l SlotList) Add(candidate string) (SlotList, error) {
	if strings.TrimSpace(candidate) == "" {
		return l, ErrInvalidOrDuplicateSlot
	}
	for _, s := range l {
		if s == candidate {
			return l, ErrInvalidOrDuplicateSlot
		}
	}
	out := make(SlotList, len(l), len(l)+1)
	copy(out, l)
	return append(out, candidate), nil
}

// Remove drops the entry at index, preserving the order of the rest. An index
// outside the list is a no-op; indices come from the rendered list, so this
// only happens on a stale form replay.
func (l SlotList) Remove(index int) SlotList {
	if index < 0 || index >= len(l) {
		return l
	}
	out := make(SlotList, 0, len(l)-1)
	out = append(out, l[:index]...)
	return append(out, l[index+1:]...)
}
