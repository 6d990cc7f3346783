package writer

import "regexp"

// We support keys in the form of [group]_[identifier]. For multi-word groups
// we can use __ instead to create a long_group__identifier.
// 0: original key
// 1: group part of key (part until __ or first part until _)
// 2: identifier - part without group
var keyRegex = regexp.MustCompile("^(.*?)_{1,2}((?:[a-zA-Z0-9]+_)*[a-zA-Z0-9]*)$")

// CompositeKeyOf returns a new CompositeKey after parsing the key argument.
// Keys without a group keep the whole key as identifier.
func CompositeKeyOf(key string) CompositeKey {
	parts := keyRegex.FindStringSubmatch(key)
	if parts == nil || parts[1] == "" || parts[2] == "" {
		return CompositeKey{[]string{key, "", key}}
	}
	return CompositeKey{parts}
}

// CompositeKey represents a key that consists of [group]_[identifier]
type CompositeKey struct {
	parts []string
}

// Original the complete, original key
func (key CompositeKey) Original() string {
	return key.parts[0]
}

// Group of the key, the first part before any `_` or `__` for longer names
func (key CompositeKey) Group() string {
	return key.parts[1]
}

// Identifier of the Key without a group
func (key CompositeKey) Identifier() string {
	return key.parts[2]
}
