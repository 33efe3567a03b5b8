// Package rules compiles user-authored activity-mapper expressions into
// predicates and caches them per rule category.
//
// The rule language is the gval full language (arithmetic, comparison,
// boolean, and ternary operators) extended with a case-insensitive
// regex-match operator and nil-safe dot-path variable access against the
// activity's evaluation view. Rule strings are untrusted input: a rule can
// read the activity it is evaluated against and nothing else.
package rules

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PaesslerAG/gval"
)

// firstElementSuffix marks a path segment that selects element zero of the
// array stored under the segment name, e.g. "metadata.commits_1st.message".
const firstElementSuffix = "_1st"

// matchOperator is the case-insensitive regex-match infix operator.
const matchOperator = "~="

// Language returns the activity-mapper expression language.
func Language() gval.Language {
	return gval.NewLanguage(
		gval.Full(),
		gval.InfixOperator(matchOperator, regexMatch),
		gval.VariableSelector(pathSelector),
	)
}

// regexMatch implements the ~= operator. The right operand is compiled as a
// case-insensitive regular expression and matched against the string form of
// the left operand. Nil operands and invalid patterns report no match rather
// than failing the evaluation.
func regexMatch(a, b interface{}) (interface{}, error) {
	pattern, ok := b.(string)
	if !ok || pattern == "" {
		return false, nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return false, nil
	}
	switch value := a.(type) {
	case nil:
		return false, nil
	case string:
		return re.MatchString(value), nil
	default:
		return re.MatchString(fmt.Sprint(value)), nil
	}
}

// pathSelector resolves dot-path variable access against the activity's
// evaluation view. A missing key at any depth short-circuits the whole path
// to nil instead of raising an evaluation error, and a segment carrying the
// _1st suffix selects the first element of the array stored under the
// segment name (nil when the field is not a non-empty array).
func pathSelector(path gval.Evaluables) gval.Evaluable {
	return func(c context.Context, parameter interface{}) (interface{}, error) {
		keys, err := path.EvalStrings(c, parameter)
		if err != nil {
			return nil, err
		}
		current := parameter
		for _, key := range keys {
			takeFirst := false
			if strings.HasSuffix(key, firstElementSuffix) && len(key) > len(firstElementSuffix) {
				key = strings.TrimSuffix(key, firstElementSuffix)
				takeFirst = true
			}
			node, ok := current.(map[string]any)
			if !ok {
				return nil, nil
			}
			current, ok = node[key]
			if !ok {
				return nil, nil
			}
			if takeFirst {
				list, ok := current.([]any)
				if !ok || len(list) == 0 {
					return nil, nil
				}
				current = list[0]
			}
		}
		return current, nil
	}
}
