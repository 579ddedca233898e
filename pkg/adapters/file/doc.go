// Package file loads autodiag catalogs from YAML or JSON files and watches them for changes.
//
// Questions may gate on earlier answers with an explicit predicate
// (`when: {kind: equals, key: starts, value: false}`) or the shorthand
// `when: {starts: false}`, which is sugar for an equals predicate (or an
// all-of-equals when several keys are listed).
package file
