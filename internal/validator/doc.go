// Package validator checks a parsed manifest and reports every problem it
// finds as a coded [Issue].
//
// Checks are grouped into categories (core, paths, platforms, recommended,
// scripts, standard, tools, variables) that run independently over the
// same manifest. An [Engine] runs them in order, isolates a category that
// panics, and returns a sorted [Result]. Validation never stops at the
// first problem.
//
// # Basic Usage
//
//	m, result := validator.NewEngine().ValidateDir(dir)
//	if !result.Passes() {
//		// refuse to pack or publish
//	}
//
// Severity, message and help text of every issue come from the
// diagnostic registry, so the same code always reads the same way.
// [Reporter] renders a result as colored text or JSON.
package validator
