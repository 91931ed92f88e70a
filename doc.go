// Package calc implements a restricted arithmetic calculator.
//
// Expressions use the familiar infix syntax of scientific calculators and
// most programming languages: "2 + 3*4", "-2**2", "sin(pi/2)",
// "factorial(5) // 7". Parsing produces a small closed expression tree, and
// evaluation only ever runs the fixed set of operators, functions and
// constants that the package whitelists. There are no variables, no strings,
// no attribute access and no way to reach anything outside the whitelist, so
// it is safe to evaluate untrusted input.
//
// Integers are exact and arbitrarily large up to a configurable size limit.
// Reals are float64. "/" always produces a real, "//" is floor division, and
// "%" takes the sign of the divisor. "**" binds tighter than a unary minus on
// its left, so "-2**2" is "-(2**2)", but "2**-1" is "2**(-1)".
//
// Parse and evaluation both accept limits on nesting depth and call argument
// counts so that hostile input cannot exhaust the stack.
package calc
