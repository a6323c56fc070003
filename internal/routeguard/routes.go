// Package routeguard classifies navigation targets and decides, from the
// principal and their activation record, whether a request may proceed or
// must be redirected. Decisions are pure functions of their inputs; the HTTP
// middleware supplies the inputs and applies the outcome.
package routeguard

import (
	"strings"

	"taskgate/internal/activation/models"
	"taskgate/internal/activation/policy"
)

// Class is the static category assigned to each navigable path.
type Class string

const (
	// ClassPublic routes are reachable by anyone.
	ClassPublic Class = "public"

	// ClassAuthOnly routes serve unauthenticated flows, like the login and
	// signup screens. Authenticated users are redirected away from them.
	ClassAuthOnly Class = "auth_only"

	// ClassOnboarding routes are the gate itself.
	ClassOnboarding Class = "onboarding"

	// ClassProtected routes require a fully activated principal.
	ClassProtected Class = "protected"
)

// Well-known navigation targets.
const (
	RouteHome            = "/dashboard"
	RouteLogin           = "/login"
	RouteOnboardingEntry = "/onboarding"
)

// Table is the static route classification, loaded once at startup and never
// mutated afterwards. Unlisted paths classify as Protected: a forgotten
// route entry fails closed, not open.
type Table struct {
	exact    map[string]Class
	prefixes []prefixEntry
}

type prefixEntry struct {
	prefix string
	class  Class
}

// NewTable builds a table from exact path entries. Prefix entries match any
// path at or under the prefix.
func NewTable() *Table {
	return &Table{exact: make(map[string]Class)}
}

// Add registers an exact path.
func (t *Table) Add(path string, class Class) *Table {
	t.exact[path] = class
	return t
}

// AddPrefix registers a path subtree.
func (t *Table) AddPrefix(prefix string, class Class) *Table {
	t.prefixes = append(t.prefixes, prefixEntry{prefix: strings.TrimSuffix(prefix, "/"), class: class})
	return t
}

// Classify maps a path to its class. Exact entries win over prefixes;
// anything unknown is Protected.
func (t *Table) Classify(path string) Class {
	path = normalize(path)
	if class, ok := t.exact[path]; ok {
		return class
	}
	for _, entry := range t.prefixes {
		if path == entry.prefix || strings.HasPrefix(path, entry.prefix+"/") {
			return entry.class
		}
	}
	return ClassProtected
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// DefaultTable classifies every route the server exposes.
func DefaultTable() *Table {
	t := NewTable()
	t.Add("/", ClassPublic)
	t.Add("/healthz", ClassPublic)
	t.Add("/metrics", ClassPublic)
	t.Add(RouteLogin, ClassAuthOnly)
	t.Add("/signup", ClassAuthOnly)
	t.Add("/auth/login", ClassAuthOnly)
	t.Add("/auth/signup", ClassAuthOnly)
	t.AddPrefix(RouteOnboardingEntry, ClassOnboarding)
	t.AddPrefix(RouteHome, ClassProtected)
	t.AddPrefix("/tasks", ClassProtected)
	return t
}

// StepRoute maps an onboarding step to its route.
func StepRoute(step models.Step) string {
	return RouteOnboardingEntry + "/" + string(step)
}

// currentStepRoute resolves the route of the first incomplete step, falling
// back to the onboarding entry when the record is missing.
func currentStepRoute(record *models.ActivationRecord) string {
	if record == nil {
		return RouteOnboardingEntry
	}
	step, ok := policy.FirstIncomplete(record)
	if !ok {
		return RouteOnboardingEntry
	}
	return StepRoute(step)
}
