package model

import (
	"encoding/json"
	"testing"
)

// TestNewBlockRule tests the block rule constructor.
func TestNewBlockRule(t *testing.T) {
	t.Parallel()

	rule := NewBlockRule(`^https?://([^/]+\.)?example\.com`)

	t.Run("sets url-filter", func(t *testing.T) {
		t.Parallel()
		if rule.Trigger.URLFilter != `^https?://([^/]+\.)?example\.com` {
			t.Errorf("got %q, expected domain-anchor regex", rule.Trigger.URLFilter)
		}
	})

	t.Run("uses block action", func(t *testing.T) {
		t.Parallel()
		if rule.Action.Type != ActionBlock {
			t.Errorf("got %q, expected %q", rule.Action.Type, ActionBlock)
		}
	})

	t.Run("leaves load-type empty", func(t *testing.T) {
		t.Parallel()
		if rule.Trigger.LoadType != nil {
			t.Errorf("expected nil load-type, got %v", rule.Trigger.LoadType)
		}
	})
}

// TestRuleJSONShape pins the serialized key names to the WebKit
// content-blocker schema.
func TestRuleJSONShape(t *testing.T) {
	t.Parallel()

	t.Run("minimal rule", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(NewBlockRule("^https://ads"))
		if err != nil {
			t.Fatal(err)
		}

		want := `{"trigger":{"url-filter":"^https://ads"},"action":{"type":"block"}}`
		if string(data) != want {
			t.Errorf("got %s, expected %s", data, want)
		}
	})

	t.Run("third-party rule", func(t *testing.T) {
		t.Parallel()

		rule := NewBlockRule("^https://ads")
		rule.Trigger.LoadType = []string{LoadThirdParty}

		data, err := json.Marshal(rule)
		if err != nil {
			t.Fatal(err)
		}

		want := `{"trigger":{"url-filter":"^https://ads","load-type":["third-party"]},"action":{"type":"block"}}`
		if string(data) != want {
			t.Errorf("got %s, expected %s", data, want)
		}
	})

	t.Run("resource-type rule", func(t *testing.T) {
		t.Parallel()

		rule := NewBlockRule("^https://ads")
		rule.Trigger.ResourceType = []string{ResourceScript}

		data, err := json.Marshal(rule)
		if err != nil {
			t.Fatal(err)
		}

		want := `{"trigger":{"url-filter":"^https://ads","resource-type":["script"]},"action":{"type":"block"}}`
		if string(data) != want {
			t.Errorf("got %s, expected %s", data, want)
		}
	})
}
