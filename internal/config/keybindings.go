package config

import (
	"fmt"
	"sort"
)

// BindingError describes a keybinding entry that cannot be parsed.
type BindingError struct {
	Group   string
	Command string
	Key     string
	Reason  string
}

func (e BindingError) Error() string {
	return fmt.Sprintf("keybindings.%s.%s: %q: %s", e.Group, e.Command, e.Key, e.Reason)
}

// ValidateKeybindings checks every configured binding and returns one error
// per entry that does not parse, sorted by group and command.
func ValidateKeybindings(k KeybindingsConfig) []BindingError {
	var errs []BindingError
	for _, group := range k.Groups() {
		for command, key := range group.Bindings {
			if _, err := NormalizeKey(key); err != nil {
				errs = append(errs, BindingError{
					Group:   group.Name,
					Command: command,
					Key:     key,
					Reason:  err.Error(),
				})
			}
		}
	}
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Group != errs[j].Group {
			return errs[i].Group < errs[j].Group
		}
		return errs[i].Command < errs[j].Command
	})
	return errs
}

// Collision reports one key bound to two commands. First and Second are
// "group.command" references in dispatch order.
type Collision struct {
	Key    string
	First  string
	Second string
}

func (c Collision) String() string {
	return fmt.Sprintf("%q bound to both %s and %s", c.Key, c.First, c.Second)
}

// CheckCollisions reports keys bound to more than one command. Keys are
// compared in normalized form, so "shift+g" and "G" collide. Entries that do
// not parse are skipped; ValidateKeybindings reports those.
func CheckCollisions(k KeybindingsConfig) []Collision {
	var collisions []Collision
	seen := make(map[string]string)
	for _, group := range k.Groups() {
		commands := make([]string, 0, len(group.Bindings))
		for command := range group.Bindings {
			commands = append(commands, command)
		}
		sort.Strings(commands)
		for _, command := range commands {
			normalized, err := NormalizeKey(group.Bindings[command])
			if err != nil {
				continue
			}
			ref := group.Name + "." + command
			if first, ok := seen[normalized]; ok {
				collisions = append(collisions, Collision{
					Key:    normalized,
					First:  first,
					Second: ref,
				})
				continue
			}
			seen[normalized] = ref
		}
	}
	return collisions
}
