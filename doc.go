// Package tally implements a small formula language for computing weighted
// scores and other named configuration values.
//
// A program is a sequence of whitespace-separated statements, each either a
// bare expression or an assignment like "total = avg((math, 2), (art, 1))".
// Evaluating a program produces a table mapping every assigned name to its
// final value. Values are integers, floats, strings, tuples, or the special
// Nothing, which absorbs arithmetic and conversions instead of failing, so a
// missing input flows through a formula rather than aborting it.
//
// Comparisons chain transitively: "1 < x < 10" holds when both adjacent
// comparisons hold, the way you'd read it on paper.
package tally
