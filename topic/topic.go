// Package topic defines the value-level topic taxonomy contract consumed by
// external transports. The core never publishes; it only names where its
// outputs belong: actions and commands on command topics, reducer intents on
// intent topics. Events are produced by external collaborators.
package topic

import (
	"fmt"
	"regexp"
	"strings"
)

// Category is one of the three disjoint message categories.
type Category string

const (
	// CategoryEvents carries past-tense facts; fan-out is allowed.
	CategoryEvents Category = "events"

	// CategoryCommands carries imperative messages with a single handler.
	CategoryCommands Category = "commands"

	// CategoryIntents carries declarative side-effect descriptions targeted
	// at Effect executors.
	CategoryIntents Category = "intents"
)

// valid topic segments: lowercase alphanumerics, dashes and underscores,
// starting with an alphanumeric, no dots (dots separate segments).
var segmentPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// versionPattern matches v1, v2, ... version segments.
var versionPattern = regexp.MustCompile(`^v[0-9]+$`)

// Topic names one transport destination, formatted
// <env>.<domain>.<category>.<version>.
type Topic struct {
	Env      string
	Domain   string
	Category Category
	Version  string
}

// New builds and validates a topic.
func New(env, domain string, category Category, version string) (Topic, error) {
	t := Topic{Env: env, Domain: domain, Category: category, Version: version}
	if err := t.Validate(); err != nil {
		return Topic{}, err
	}
	return t, nil
}

// Validate checks every segment against the taxonomy rules.
func (t Topic) Validate() error {
	if !segmentPattern.MatchString(t.Env) {
		return fmt.Errorf("invalid topic env %q", t.Env)
	}
	if !segmentPattern.MatchString(t.Domain) {
		return fmt.Errorf("invalid topic domain %q", t.Domain)
	}
	switch t.Category {
	case CategoryEvents, CategoryCommands, CategoryIntents:
	default:
		return fmt.Errorf("invalid topic category %q", t.Category)
	}
	if !versionPattern.MatchString(t.Version) {
		return fmt.Errorf("invalid topic version %q", t.Version)
	}
	return nil
}

// String renders the canonical topic name.
func (t Topic) String() string {
	return strings.Join([]string{t.Env, t.Domain, string(t.Category), t.Version}, ".")
}

// Parse splits a canonical topic name back into its segments.
func Parse(name string) (Topic, error) {
	parts := strings.Split(name, ".")
	if len(parts) != 4 {
		return Topic{}, fmt.Errorf("topic %q: want 4 dot-separated segments, got %d", name, len(parts))
	}
	return New(parts[0], parts[1], Category(parts[2]), parts[3])
}
