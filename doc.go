// Package beecalc implements a line-oriented, unit-aware notebook
// calculator.
//
// Each line of a notebook is an expression in loose everyday notation:
// "2mm * 3" multiplies a length, "50 % of 80" takes a percentage, "5!" is
// a factorial, and "(2 m + 5 in) to mm" converts. A preprocessor rewrites
// that shorthand into canonical expression text, and the evaluator runs
// the result against the session's variables, constants, functions, and
// unit tables.
//
// Sessions carry state between lines: assignments like "rate = 12 USD"
// bind variables, and ans (or @) is the previous result. A Notepad layers
// per-line results on top of a session and replays the whole notebook
// whenever a line changes, so results are always those of one pass from
// the top.
package beecalc
