// Package lang implements an embeddable scripting language: a scanner,
// a recursive descent parser, and a tree-walking interpreter over a
// small dynamically typed value model.
//
// # Philosophy
//
// The language is deliberately small. Programs are sequences of
// semicolon-terminated statements over four value kinds (numbers,
// strings, booleans, and null), with lexical scoping and a table of
// host-registered functions as the only way to reach the outside
// world. Hosts embed an [Interp], register native functions against
// typed signatures, and retain full control of the streams and random
// source the built-ins use.
//
// # Grammar
//
//	Program    = { Statement ";" } .
//	Statement  = "let" identifier "=" Expression
//	           | identifier "=" Expression
//	           | "if" Expression "{" { Statement ";" } "}"
//	           | Expression .
//	Expression = Comparison .
//	Comparison = Sum { ( ">" | "<" ) Sum } .
//	Sum        = Product { ( "+" | "-" ) Product } .
//	Product    = Power { ( "*" | "/" ) Power } .
//	Power      = Primary { "^" Primary } .
//	Primary    = number | string | boolean | identifier
//	           | identifier "(" [ Sum { "," Sum } ] ")"
//	           | ( "+" | "-" ) Primary
//	           | "(" Comparison ")" .
//
// Identifiers are maximal runs of alphabetic characters. "let" and
// "if" are contextual: the parser recognizes them by text at the start
// of a statement. Numbers are floating point with at most one decimal
// point; strings are delimited by matching single or double quotes and
// have no escape sequences. Every binary level associates left, and
// call arguments parse at sum precedence, so comparisons appear as
// arguments only when parenthesized.
//
// # Example
//
//	it := lang.New()
//
//	result, err := it.Run(ctx, []byte(`
//		let x = 10 + 5;
//		let y = x * 2;
//		y = 8;
//		print("The result is " + y);
//	`))
//
// # Scoping
//
// Declarations bind in the scope where they execute; an if body is a
// child scope, so its declarations vanish when the body ends while
// assignments to outer names persist. Declaring a name twice in one
// scope fails, but an inner scope may shadow an outer name.
//
// # Errors
//
// Every failure is a recoverable value classified by one of the
// sentinels [ErrLex], [ErrParse], [ErrName], [ErrArity], [ErrType],
// or [ErrArithmetic], carrying the source position where it occurred.
// Use [Detail] to render an error with its offending source line.
package lang
