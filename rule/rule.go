// Package rule defines PopShop's in-memory rule representation: a request
// pattern bound to exactly one of a mock response or a proxy target.
package rule

import (
	"fmt"
	"strings"
)

// DispatchMethods is the set of HTTP verbs the matcher will ever dispatch
// against. A request using any other verb parses fine but never matches
// any rule.
var DispatchMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "DELETE": {}, "PATCH": {}, "HEAD": {}, "OPTIONS": {},
}

// Pattern is the request side of a Rule: exact method, exact path, optional
// header constraints, optional body constraint.
type Pattern struct {
	Path    string
	Method  string
	Headers map[string]string // optional; nil means "no header constraints"
	Body    []byte            // nil means "any body accepted"; non-nil requires byte equality
}

// MockResponse is a canned response a Rule can return.
type MockResponse struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// ProxyTarget is an upstream a Rule forwards matching requests to.
type ProxyTarget struct {
	URL            string
	MethodOverride string // empty means "use the incoming method"
	Headers        map[string]string
	TimeoutMs      int
}

// Rule binds a Pattern to exactly one of {Response, Proxy}.
type Rule struct {
	Name     string // optional, informational (source file / index)
	Pattern  Pattern
	Response *MockResponse
	Proxy    *ProxyTarget
}

// List is an ordered, immutable-once-published sequence of rules.
// A *List is never mutated after it is handed to a store.Store.Replace;
// a reload always constructs a brand new List rather than merging into the
// old one.
type List struct {
	Rules []*Rule
}

// New validates and constructs a Rule, enforcing the "exactly one of
// response/proxy" invariant.
func New(name string, pattern Pattern, resp *MockResponse, proxy *ProxyTarget) (*Rule, error) {
	if (resp == nil) == (proxy == nil) {
		return nil, fmt.Errorf("rule %q must have exactly one of response or proxy", name)
	}
	pattern.Method = strings.ToUpper(strings.TrimSpace(pattern.Method))
	return &Rule{Name: name, Pattern: pattern, Response: resp, Proxy: proxy}, nil
}

// IsMock reports whether this rule dispatches to the mock responder.
func (r *Rule) IsMock() bool { return r.Response != nil }

// IsProxy reports whether this rule dispatches to the proxy client.
func (r *Rule) IsProxy() bool { return r.Proxy != nil }

// Kind returns a short label used in logs and the admin API's rule listing.
func (r *Rule) Kind() string {
	if r.IsProxy() {
		return "proxy"
	}
	return "mock"
}

// Counts returns total/mock/proxy counts for a list, used by `validate` and
// the admin health endpoint.
func (l *List) Counts() (total, mock, proxy int) {
	if l == nil {
		return 0, 0, 0
	}
	total = len(l.Rules)
	for _, r := range l.Rules {
		if r.IsProxy() {
			proxy++
		} else {
			mock++
		}
	}
	return
}
