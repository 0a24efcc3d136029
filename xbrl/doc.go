// Package xbrl models the XBRL endpoints of the EDGAR API: single
// company concepts, all company facts, and cross-company frames.
//
// Besides the response shapes it provides the request parameter types
// used to address those endpoints ([Taxonomy], [Unit] and [Period]) and
// read-only helpers for querying parsed responses.
package xbrl
