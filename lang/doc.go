// Package lang implements a small dynamically-typed expression language in
// the style of MoLang, intended to be embedded in a host application that
// needs runtime-computed values: arithmetic, conditionals, and queries
// against a host-supplied entity.
//
// # Pipeline
//
// Source text is tokenized by a [Lexer], parsed into an immutable tree of
// [Expr] nodes, and then either evaluated directly by an [Evaluator] or bound
// to a caller-declared [Signature] as a reusable [CompiledFunction]:
//
//	text → Lexer → tokens → parser → []Expr → Evaluator
//	                                        ↘ CompiledFunction
//
// # Grammar
//
// Informal EBNF:
//
//	script         → (expr (';' expr)*)? ';'?
//	expr           → assignment
//	assignment     → ternary ('=' assignment)?
//	ternary        → coalesce ('?' expr ':' expr)?
//	coalesce       → or ('??' or)*
//	or             → and ('||' and)*
//	and            → equality ('&&' equality)*
//	equality       → relational (('=='|'!=') relational)*
//	relational     → additive (('<'|'<='|'>'|'>=') additive)*
//	additive       → multiplicative (('+'|'-') multiplicative)*
//	multiplicative → unary (('*'|'/') unary)*
//	unary          → ('-'|'!') unary | postfix
//	postfix        → primary ('.' IDENT | '(' args? ')')*
//	primary        → NUMBER | STRING | IDENT | 'true' | 'false'
//	               | '(' expr ')' | '{' script '}' | 'return' expr
//	args           → expr (',' expr)*
//
// # Values
//
// Every runtime [Value] is one of number, string, boolean, callable, object
// (a [Namespace]) or null. Conversions between kinds never fail:
// [Value.AsDouble], [Value.AsString] and [Value.AsBoolean] are total, and an
// identifier that resolves to nothing evaluates to the number 0.
//
// Only two conditions abort an evaluation: calling something that is not
// callable ([NotCallableError]) and nesting calls deeper than the engine's
// recursion limit ([RecursionLimitError]). A canceled context also stops an
// evaluation at its next call. A [CompiledFunction] additionally
// rejects a call with the wrong number of arguments ([ArityError]) before
// evaluating anything.
//
// # Scopes
//
// Each [Engine] owns one [GlobalScope] holding its namespaces (math, temp,
// query) and the shared temp [Storage]. Temp storage is the only state that
// survives from one evaluation to the next; it is guarded by a lock so that
// compiled functions sharing an engine may run concurrently.
//
// # Example
//
//	engine, _ := lang.New()
//	exprs, _ := engine.Parse(ctx, "3 * math.abs(5 * 5 * -1) + 1")
//	v, _ := engine.Evaluate(ctx, exprs, nil)
//	fmt.Println(v.AsDouble()) // 76
package lang
