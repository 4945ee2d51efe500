package cli

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Matches keys (with their colon), strings, literals and numbers.
var jsonTokenRegex = regexp.MustCompile(`("(\\u[a-zA-Z0-9]{4}|\\[^u]|[^\\"])*"(\s*:)?|\b(true|false|null)\b|-?\d+(?:\.\d*)?(?:[eE][+\-]?\d+)?)`)

type tokenKind int

const (
	tokenKey tokenKind = iota
	tokenString
	tokenBool
	tokenNull
	tokenNumber
)

var palette = map[tokenKind]string{
	tokenKey:    Blue,
	tokenString: Green,
	tokenBool:   Yellow,
	tokenNull:   DimCode,
	tokenNumber: Purple,
}

func classify(token string) tokenKind {
	switch {
	case strings.HasSuffix(token, ":"):
		return tokenKey
	case strings.HasPrefix(token, `"`):
		return tokenString
	case token == "true" || token == "false":
		return tokenBool
	case token == "null":
		return tokenNull
	default:
		return tokenNumber
	}
}

// HighlightJSON applies ANSI colors to a JSON document, minified or indented.
func HighlightJSON(jsonStr string) string {
	if !Enabled() {
		return jsonStr
	}

	return jsonTokenRegex.ReplaceAllStringFunc(jsonStr, func(token string) string {
		kind := classify(token)
		if kind == tokenKey {
			key := strings.TrimRight(token[:len(token)-1], " \t")
			return palette[kind] + key + ResetCode + ":"
		}
		return palette[kind] + token + ResetCode
	})
}

// PrettyFormat renders v as indented, highlighted JSON. Strings and byte
// slices are assumed to hold JSON already.
func PrettyFormat(v interface{}) string {
	var str string
	switch t := v.(type) {
	case []byte:
		str = string(t)
	case string:
		str = t
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprintf("%+v", v)
		}
		str = string(b)
	}
	return HighlightJSON(str)
}
