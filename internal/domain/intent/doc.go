// Package intent translates loosely phrased requests such as
// "create a folder named reports" into filesystem intents.
//
// Matching is a fixed, ordered table of regular expressions; the first rule
// that matches decides the action. Identifiers may only contain word
// characters, dots and hyphens, so names with spaces never match.
package intent
