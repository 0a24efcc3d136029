// Package ticker decodes the SEC ticker lists. Both lists are tabular:
// a fields header naming four columns, followed by rows of that arity.
package ticker
