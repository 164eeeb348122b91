package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"popshop/apperr"
	"popshop/rule"
)

// ParseDocument decodes a single YAML document (one file's contents) into
// zero or more Rules. A document is either a single rule map or a sequence
// of rule maps.
func ParseDocument(data []byte, sourceFile string) ([]*rule.Rule, error) {
	var root interface{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, apperr.New(apperr.InvalidConfiguration, "%s: %v", sourceFile, err).WithFile(sourceFile, 0)
	}
	if root == nil {
		return nil, nil
	}

	entries, err := asRuleEntries(root)
	if err != nil {
		return nil, apperr.New(apperr.InvalidConfiguration, "%s: %v", sourceFile, err).WithFile(sourceFile, 0)
	}

	rules := make([]*rule.Rule, 0, len(entries))
	for i, entry := range entries {
		r, err := buildRule(entry, sourceFile, i)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// asRuleEntries normalizes the document root (single map or list of maps)
// into a slice of raw rule maps.
func asRuleEntries(root interface{}) ([]map[string]interface{}, error) {
	switch v := root.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{v}, nil
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("sequence entry is not a rule map")
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("document must be a rule map or a sequence of rule maps")
	}
}

// buildRule constructs a *rule.Rule from one raw entry, enforcing the
// required-field and exactly-one-of-{response,proxy} invariants.
func buildRule(entry map[string]interface{}, sourceFile string, index int) (*rule.Rule, error) {
	name := fmt.Sprintf("%s#%d", sourceFile, index)

	requestRaw, ok := entry["request"].(map[string]interface{})
	if !ok {
		return nil, apperr.New(apperr.InvalidConfiguration, "rule %s: missing 'request'", name).WithFile(sourceFile, 0)
	}

	path := asString(requestRaw["path"])
	if path == "" {
		return nil, apperr.New(apperr.InvalidConfiguration, "rule %s: request.path is required", name).WithFile(sourceFile, 0)
	}

	method := firstNonEmpty(asString(requestRaw["method"]), asString(requestRaw["verb"]))
	if method == "" {
		return nil, apperr.New(apperr.InvalidConfiguration, "rule %s: request.method is required", name).WithFile(sourceFile, 0)
	}
	method = normalizeMethod(method)

	pattern := rule.Pattern{
		Path:    path,
		Method:  method,
		Headers: stringHeaders(requestRaw["headers"]),
	}
	if b, ok := requestRaw["body"]; ok {
		if s, ok := b.(string); ok {
			pattern.Body = []byte(s)
		}
	}

	responseRaw, hasResponse := entry["response"].(map[string]interface{})
	proxyRaw, hasProxy := entry["proxy"].(map[string]interface{})

	if hasResponse == hasProxy {
		return nil, apperr.New(apperr.InvalidConfiguration,
			"rule %s: exactly one of 'response' or 'proxy' is required", name).WithFile(sourceFile, 0)
	}

	var resp *rule.MockResponse
	var proxy *rule.ProxyTarget

	if hasResponse {
		bodyVal, hasBody := responseRaw["body"]
		body, _ := bodyVal.(string)
		if !hasBody {
			return nil, apperr.New(apperr.InvalidConfiguration, "rule %s: response.body is required", name).WithFile(sourceFile, 0)
		}
		resp = &rule.MockResponse{
			Status:  parseStatus(responseRaw["status"]),
			Headers: stringHeaders(responseRaw["headers"]),
			Body:    []byte(body),
		}
	} else {
		url := asString(proxyRaw["url"])
		if url == "" {
			return nil, apperr.New(apperr.InvalidConfiguration, "rule %s: proxy.url is required", name).WithFile(sourceFile, 0)
		}
		timeout := asInt(proxyRaw["timeout_ms"])
		if timeout <= 0 {
			timeout = defaultProxyTimeoutMs
		}
		override := firstNonEmpty(asString(proxyRaw["method"]), asString(proxyRaw["verb"]))
		proxy = &rule.ProxyTarget{
			URL:            url,
			MethodOverride: normalizeMethod(override),
			Headers:        stringHeaders(proxyRaw["headers"]),
			TimeoutMs:      timeout,
		}
	}

	r, err := rule.New(name, pattern, resp, proxy)
	if err != nil {
		return nil, apperr.New(apperr.InvalidConfiguration, "%v", err).WithFile(sourceFile, 0)
	}
	return r, nil
}
