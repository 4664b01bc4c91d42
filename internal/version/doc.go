// Package version validates and bumps the three-component dotted versions
// declared in package metadata and used as gitflow branch names.
//
// Validation is deliberately lax: a component only has to look numeric
// (fractional or exponent forms included), while arithmetic always works on
// the leading integer of each component.
package version
