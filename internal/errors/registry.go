package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (T001-T019)
	// ============================================

	"T001": {
		Category:   CategoryRouting,
		Message:    "No target matched and no default set",
		Detail:     "The current location did not parse to any target and the router has no fallback. Nothing is rendered as active.",
		Suggestion: "Register a not-found target with router.WithDefault or SetDefault.",
		DocURL:     "https://traverse.dev/docs/errors/T001",
	},
	"T002": {
		Category:   CategoryRouting,
		Message:    "Router used after close",
		Detail:     "The router was closed, usually because its last mount point was disposed, and can no longer navigate.",
		DocURL:     "https://traverse.dev/docs/errors/T002",
	},

	// ============================================
	// Protocol Errors (T020-T039)
	// ============================================

	"T020": {
		Category:   CategoryProtocol,
		Message:    "Malformed sync frame",
		Detail:     "A frame received over the WebSocket could not be decoded or failed validation.",
		Suggestion: "Check that the client script version matches the server.",
		DocURL:     "https://traverse.dev/docs/errors/T020",
	},
	"T021": {
		Category: CategoryProtocol,
		Message:  "Unexpected frame direction",
		Detail:   "The client sent a frame type that only the server may send (push, replace, back, forward).",
		DocURL:   "https://traverse.dev/docs/errors/T021",
	},
	"T022": {
		Category:   CategoryProtocol,
		Message:    "Invalid navigation path",
		Detail:     "The path in a navigation frame contains forbidden bytes or escapes the site root.",
		DocURL:     "https://traverse.dev/docs/errors/T022",
	},

	// ============================================
	// Asset Errors (T040-T059)
	// ============================================

	"T040": {
		Category:   CategoryAssets,
		Message:    "Shell document not found",
		Detail:     "The configured shell document does not exist in the asset source, so application paths cannot be served.",
		Suggestion: "Check the shell.document setting and the asset directory or bucket contents.",
		DocURL:     "https://traverse.dev/docs/errors/T040",
	},
	"T041": {
		Category: CategoryAssets,
		Message:  "Asset source unavailable",
		Detail:   "The asset source returned an error that was not a simple missing object.",
		DocURL:   "https://traverse.dev/docs/errors/T041",
	},

	// ============================================
	// Config Errors (T060-T079)
	// ============================================

	"T060": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Detail:     "No traverse.json was found in the current directory or any parent.",
		Suggestion: "Run 'traverse init' to create one, or pass --config with an explicit path.",
		DocURL:     "https://traverse.dev/docs/errors/T060",
	},
	"T061": {
		Category:   CategoryConfig,
		Message:    "Config file invalid",
		Detail:     "traverse.json exists but could not be parsed or failed validation.",
		DocURL:     "https://traverse.dev/docs/errors/T061",
	},
}
