package easylist

import (
	"strings"

	"github.com/nao1215/abpconv/internal/model"
)

// cosmeticMarkers are the element-hiding separators of the AdBlock Plus
// syntax. A line containing any of them is a cosmetic rule, which cannot be
// expressed as a network trigger.
var cosmeticMarkers = []string{"##", "#@#", "#?#"}

// resourceTypes maps the supported AdBlock Plus resource-type options to
// WebKit content-blocker resource-type names. Options outside this
// vocabulary are ignored.
var resourceTypes = map[string]string{
	"script":         model.ResourceScript,
	"image":          model.ResourceImage,
	"stylesheet":     model.ResourceStyleSheet,
	"xmlhttprequest": model.ResourceRaw,
	"subdocument":    model.ResourceDocument,
	"object":         model.ResourceRaw,
}

// Parser classifies filter list lines and builds content-blocker rules.
// The zero value is not usable; create one with NewParser.
type Parser struct {
	// emitResourceTypes controls whether a recognized resource-type option
	// is surfaced as the trigger's resource-type array. Off by default so
	// the output stays byte-compatible with consumers expecting the minimal
	// trigger shape.
	emitResourceTypes bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithResourceTypes makes the parser emit resource-type arrays for rules
// whose source line carried a supported resource-type option.
func WithResourceTypes() Option {
	return func(p *Parser) {
		p.emitResourceTypes = true
	}
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// lineOptions holds the recognized options parsed from a $suffix.
type lineOptions struct {
	// thirdParty is true when the rule applies to third-party loads only.
	// Set by the third-party option; cleared again by ~third-party.
	thirdParty bool

	// resourceType is the WebKit resource-type name recorded from the last
	// resource-type option on the line. Empty when none was present.
	resourceType string
}

// ParseLine converts one raw filter list line into a content-blocker rule.
// When the line produces no rule, it returns a nil rule and the reason the
// line was dropped. A per-line drop is a normal outcome, never an error.
func (p *Parser) ParseLine(raw string) (*model.Rule, model.SkipReason) {
	line := strings.TrimSpace(raw)

	switch {
	case line == "":
		return nil, model.SkipEmpty
	case strings.HasPrefix(line, "!"), strings.HasPrefix(line, "["):
		return nil, model.SkipComment
	case strings.HasPrefix(line, "@@"):
		return nil, model.SkipException
	}
	for _, marker := range cosmeticMarkers {
		if strings.Contains(line, marker) {
			return nil, model.SkipCosmetic
		}
	}

	pattern := line
	var opts lineOptions
	// The options suffix starts at the rightmost "$" so that "$" characters
	// inside the pattern survive.
	if i := strings.LastIndex(line, "$"); i >= 0 {
		pattern = line[:i]
		var ok bool
		opts, ok = parseOptions(line[i+1:])
		if !ok {
			return nil, model.SkipDomainOption
		}
	}

	urlFilter, ok := TranslatePattern(pattern)
	if !ok {
		return nil, model.SkipUnsupported
	}

	rule := model.NewBlockRule(urlFilter)
	if opts.thirdParty {
		rule.Trigger.LoadType = []string{model.LoadThirdParty}
	}
	if p.emitResourceTypes && opts.resourceType != "" {
		rule.Trigger.ResourceType = []string{opts.resourceType}
	}
	return &rule, model.SkipNone
}

// parseOptions parses a comma-separated option list. It returns ok=false
// when the list contains a domain= option, which rejects the whole line.
// Unrecognized options are ignored; a repeated resource-type option keeps
// the last occurrence.
func parseOptions(list string) (lineOptions, bool) {
	var opts lineOptions
	for _, opt := range strings.Split(list, ",") {
		switch {
		case strings.HasPrefix(opt, "domain="):
			return lineOptions{}, false
		case opt == "third-party" || opt == "~third-party":
			opts.thirdParty = !strings.HasPrefix(opt, "~")
		default:
			if name, ok := resourceTypes[opt]; ok {
				opts.resourceType = name
			}
		}
	}
	return opts, true
}
