package schema

import (
	"regexp"
)

// overlayDirectiveRegex matches @overlay(...) at the start of a line.
var overlayDirectiveRegex = regexp.MustCompile(`(?m)^@overlay\s*\(((?:[^()]*|\([^)]*\))*)\)`)

// metaTypeName is the synthetic type that carries the file-level @overlay directive
const metaTypeName = "_Schema"

// PreprocessSDL rewrites the file-level `@overlay(...)` header into a valid GraphQL type definition
// so the document can be handed to the GraphQL parser unchanged.
func PreprocessSDL(input string) string {
	return overlayDirectiveRegex.ReplaceAllStringFunc(input, func(match string) string {
		args := overlayDirectiveRegex.FindStringSubmatch(match)[1]
		return `type ` + metaTypeName + ` {
  _: String @overlay(` + args + `)
}`
	})
}
