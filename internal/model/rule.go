package model

// Rule is one entry in a WebKit content-blocker rule list.
// The JSON shape (key names, nesting, the literal block action) must match
// the schema WebKit's UserContentFilterStore compiles, so the struct tags
// here are load-bearing.
type Rule struct {
	// Trigger is the matching condition of the rule.
	Trigger Trigger `json:"trigger"`

	// Action is what WebKit does when the trigger matches.
	Action Action `json:"action"`
}

// Trigger defines when a rule activates.
type Trigger struct {
	// URLFilter is a regular expression matched against the full URL.
	// It is always present and non-empty.
	URLFilter string `json:"url-filter"` //nolint:tagliatelle // WebKit schema uses kebab-case

	// LoadType restricts the rule to first-party or third-party loads.
	// Present only when the source rule carried a third-party option.
	LoadType []string `json:"load-type,omitempty"` //nolint:tagliatelle // WebKit schema uses kebab-case

	// ResourceType restricts the rule to specific resource kinds
	// (script, image, style-sheet, ...). Emitted only when resource-type
	// output is enabled.
	ResourceType []string `json:"resource-type,omitempty"` //nolint:tagliatelle // WebKit schema uses kebab-case
}

// Action defines what to do when a rule triggers.
type Action struct {
	// Type is the action kind. This converter only produces "block".
	Type string `json:"type"`
}

// Action type constants from the WebKit content-blocker schema.
const (
	// ActionBlock blocks the network request entirely.
	ActionBlock = "block"
)

// Load type constants from the WebKit content-blocker schema.
const (
	// LoadThirdParty restricts a trigger to third-party loads.
	LoadThirdParty = "third-party"

	// LoadFirstParty restricts a trigger to first-party loads.
	LoadFirstParty = "first-party"
)

// Resource type constants from the WebKit content-blocker schema.
// Note that WebKit's names differ from the AdBlock Plus option vocabulary
// (style-sheet vs stylesheet, raw vs xmlhttprequest).
const (
	ResourceDocument   = "document"
	ResourceImage      = "image"
	ResourceStyleSheet = "style-sheet"
	ResourceScript     = "script"
	ResourceFont       = "font"
	ResourceRaw        = "raw"
	ResourceMedia      = "media"
	ResourcePopup      = "popup"
)

// NewBlockRule creates a Rule that blocks requests matching urlFilter.
func NewBlockRule(urlFilter string) Rule {
	return Rule{
		Trigger: Trigger{URLFilter: urlFilter},
		Action:  Action{Type: ActionBlock},
	}
}
