package monitoring

import (
	"regexp"
	"strings"
)

// reFuncName captures package, optional receiver and method from a runtime function name.
var reFuncName = regexp.MustCompile(`(?:[^/]+/)*([^./]+)\.(?:\(?\*?([^.)]+)\)?\.)?(.+)$`)

func segmentName(fullFuncName string) string {
	matches := reFuncName.FindStringSubmatch(fullFuncName)
	if len(matches) < 4 {
		return fullFuncName
	}

	parts := make([]string, 0, 3)
	for _, m := range matches[1:4] {
		if m != "" {
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, ".")
}
