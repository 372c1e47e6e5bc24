// Package flag models the moderation flag attached to an archived message.
// The wire format is a plain string: one of the static kinds, or
// "pending_react:<emoji>" for a reaction the bot has yet to deliver. The
// string is decoded exactly once at the API boundary; everything past that
// works with the tagged Flag value.
package flag

import "strings"

// Kind enumerates the flag states a message can be in.
type Kind string

const (
	KindNone         Kind = "none"
	KindGreen        Kind = "green"
	KindRed          Kind = "red"
	KindPendingReact Kind = "pending_react"
)

const pendingPrefix = "pending_react:"

// Flag is the decoded form of a message flag. Emoji is only meaningful when
// Kind is KindPendingReact; it may itself contain a colon for custom emoji
// ("name:id"), so the wire value is split on the first colon only.
type Flag struct {
	Kind  Kind
	Emoji string
}

// Parse decodes a raw flag string. Unknown or empty values map to none.
func Parse(raw string) Flag {
	switch raw {
	case string(KindGreen):
		return Flag{Kind: KindGreen}
	case string(KindRed):
		return Flag{Kind: KindRed}
	}
	if strings.HasPrefix(raw, pendingPrefix) {
		return Flag{Kind: KindPendingReact, Emoji: raw[len(pendingPrefix):]}
	}
	// A bare marker without a token still counts as pending so that its
	// structural state matches the payload-carrying form.
	if raw == string(KindPendingReact) {
		return Flag{Kind: KindPendingReact}
	}
	return Flag{Kind: KindNone}
}

// PendingReact builds the flag for a queued reaction with the given emoji
// token (plain unicode, or "name:id" for custom emoji).
func PendingReact(emoji string) Flag {
	return Flag{Kind: KindPendingReact, Emoji: emoji}
}

// String re-encodes the flag into its wire form.
func (f Flag) String() string {
	if f.Kind == KindPendingReact {
		return pendingPrefix + f.Emoji
	}
	if f.Kind == "" {
		return string(KindNone)
	}
	return string(f.Kind)
}

// Icon returns the display glyph for the flag. Pending reactions show an
// hourglass together with the emoji token.
func (f Flag) Icon() string {
	switch f.Kind {
	case KindGreen:
		return "🟢"
	case KindRed:
		return "🔴"
	case KindPendingReact:
		return "⏳" + f.Emoji
	}
	return "⚪"
}

// State returns the structural state name used for styling. The reaction
// payload is not part of the state: every pending reaction shares one state
// regardless of which emoji is queued.
func (f Flag) State() string {
	if f.Kind == "" {
		return string(KindNone)
	}
	return string(f.Kind)
}

// IsPending reports whether the flag carries a queued reaction.
func (f Flag) IsPending() bool {
	return f.Kind == KindPendingReact
}

// Valid reports whether a raw wire value is acceptable for a flag update:
// one of the static kinds, or any pending_react-prefixed value.
func Valid(raw string) bool {
	switch raw {
	case string(KindNone), string(KindGreen), string(KindRed):
		return true
	}
	return strings.HasPrefix(raw, pendingPrefix)
}
