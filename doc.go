// Package minilang implements the front end of a small arithmetic language:
// a tokenizer, two interchangeable expression parsers, and a parser for
// programs of variable and function definitions.
//
// Expressions use + - * / % with the usual precedence and left
// associativity, right-associative ^ binding tightest among infix operators,
// unary + and -, parentheses, and calls like "f(x, y)". Unary minus is
// represented as subtraction from zero, and pairs of unary minuses cancel, so
// "--x" parses the same as "x".
//
// RecursiveDescent and ShuntingYard are different algorithms over the same
// grammar. They accept the same inputs, produce equal trees, and report the
// same class of error at the same token for malformed inputs.
//
// Programs are sequences of definitions:
//
//	var r = 2;
//	def area(r) = 3.14159 * r^2;
//
package minilang
