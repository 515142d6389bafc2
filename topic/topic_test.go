package topic_test

import (
	"testing"

	"github.com/onexlabs/onex-go/topic"
)

func TestTopicString(t *testing.T) {
	tp, err := topic.New("staging", "registration", topic.CategoryIntents, "v1")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if got, want := tp.String(), "staging.registration.intents.v1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTopicParse(t *testing.T) {
	tp, err := topic.Parse("prod.workflow.commands.v2")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if tp.Env != "prod" || tp.Domain != "workflow" || tp.Category != topic.CategoryCommands || tp.Version != "v2" {
		t.Errorf("Parse = %+v", tp)
	}
}

func TestTopicValidation(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"wrong segment count", "prod.workflow.commands"},
		{"unknown category", "prod.workflow.queries.v1"},
		{"bad version", "prod.workflow.events.one"},
		{"uppercase env", "Prod.workflow.events.v1"},
		{"empty domain", "prod..events.v1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := topic.Parse(tc.in); err == nil {
				t.Errorf("Parse(%q) should fail", tc.in)
			}
		})
	}
}

func TestTopicCategoriesDisjoint(t *testing.T) {
	seen := map[topic.Category]bool{}
	for _, c := range []topic.Category{topic.CategoryEvents, topic.CategoryCommands, topic.CategoryIntents} {
		if seen[c] {
			t.Fatalf("duplicate category %s", c)
		}
		seen[c] = true
	}
}
