// Package extract provides helpers for pulling text and record nodes out of
// the loosely structured JSON that search backends embed in their responses.
// Upstream formats change without notice, so every helper degrades to an
// empty value instead of failing on unexpected shapes.
package extract

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Text extracts a human-readable string from a value that may be a plain
// string, a {"simpleText": "..."} wrapper, or a {"runs": [{"text": ...}]}
// wrapper whose pieces are concatenated in order and trimmed. Any other shape
// yields the empty string.
func Text(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	if !v.IsObject() {
		return ""
	}

	if s := v.Get("simpleText"); s.Type == gjson.String {
		return s.String()
	}

	runs := v.Get("runs")
	if !runs.IsArray() {
		return ""
	}
	var b strings.Builder
	runs.ForEach(func(_, run gjson.Result) bool {
		if run.IsObject() {
			if t := run.Get("text"); t.Type == gjson.String {
				b.WriteString(t.String())
			}
		}
		return true
	})
	return strings.TrimSpace(b.String())
}

// Renderers collects every object stored under key anywhere in root,
// depth-first in document order. The matched objects are descended into as
// well, so nested renderers are found regardless of depth.
func Renderers(root gjson.Result, key string) []gjson.Result {
	var found []gjson.Result

	var walk func(v gjson.Result)
	walk = func(v gjson.Result) {
		switch {
		case v.IsObject():
			v.ForEach(func(k, child gjson.Result) bool {
				if k.String() == key && child.IsObject() {
					found = append(found, child)
				}
				walk(child)
				return true
			})
		case v.IsArray():
			v.ForEach(func(_, child gjson.Result) bool {
				walk(child)
				return true
			})
		}
	}
	walk(root)

	return found
}

// ScriptVarPattern builds a pattern matching the JSON object assigned to a
// script-embedded global, i.e. `name = { ... };` up to the first top-level
// terminator.
func ScriptVarPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)` + regexp.QuoteMeta(name) + `\s*=\s*(\{.*?\});`)
}

// ScriptVar locates and parses the JSON blob matched by re in an HTML page.
// It reports false when the blob is absent or not valid JSON.
func ScriptVar(body []byte, re *regexp.Regexp) (gjson.Result, bool) {
	m := re.FindSubmatch(body)
	if m == nil {
		return gjson.Result{}, false
	}
	if !gjson.ValidBytes(m[1]) {
		return gjson.Result{}, false
	}
	return gjson.ParseBytes(m[1]), true
}
