package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Routing (R001-R099)
	"R001": {
		Category:   CategoryRouting,
		Message:    "No route matches path",
		Detail:     "The path was compared against every route in table order and none matched.",
		Suggestion: "Run 'viewroute routes' to list the route table",
	},
	"R002": {
		Category: CategoryRouting,
		Message:  "View failed to load",
		Detail:   "The route matched but its lazily loaded view could not be produced. The navigation was aborted.",
	},
	"R003": {
		Category:   CategoryRouting,
		Message:    "Duplicate route name",
		Detail:     "Route names must be unique within the route table.",
		Suggestion: "Rename one of the routes",
	},
	"R004": {
		Category:   CategoryRouting,
		Message:    "Invalid route",
		Detail:     "A route pattern must start with '/', have no empty segments, and name every capture (':id', ':id:int').",
		Suggestion: "Check the route definition",
	},
	"R005": {
		Category: CategoryRouting,
		Message:  "Invalid path",
		Detail:   "The path contains a backslash, a NUL byte, an invalid percent escape, or is an absolute URL.",
	},
	"R006": {
		Category: CategoryRouting,
		Message:  "Cannot build route URL",
		Detail:   "Named navigation needs a known route name and a valid value for every capture.",
	},

	// Views (V001-V099)
	"V001": {
		Category:   CategoryView,
		Message:    "View source unavailable",
		Detail:     "The configured view source could not be opened.",
		Suggestion: "Check views.source and its settings in the config file",
	},
	"V002": {
		Category:   CategoryView,
		Message:    "View template invalid",
		Detail:     "The view module was read but could not be parsed as an HTML template.",
		Suggestion: "Check the template syntax of the view module",
	},

	// Config (C001-C099)
	"C001": {
		Category:   CategoryConfig,
		Message:    "Config file not readable",
		Suggestion: "Pass --config or create viewroute.json",
	},
	"C002": {
		Category:   CategoryConfig,
		Message:    "Config file invalid",
		Suggestion: "Check that the file is valid JSON or TOML",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Config value invalid",
	},

	// CLI (X001-X099)
	"X001": {
		Category: CategoryCLI,
		Message:  "Server failed",
	},
	"X002": {
		Category:   CategoryCLI,
		Message:    "Command failed",
		Suggestion: "Run viewroute --help for usage",
	},
	"X003": {
		Category:   CategoryCLI,
		Message:    "Metrics registration failed",
		Detail:     "The metrics registry already holds viewroute collectors, usually from another App sharing it.",
		Suggestion: "Give each App its own registry, or pass none to get a fresh one",
	},
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
