// Package pipe compiles pipeline expressions into host expressions.
//
// A pipeline is an initial expression followed by steps separated by "=>".
// Each step threads the value produced so far into an operation:
//
//	input => parse_number =>& Ok =>@ double =>? (as f64)
//
// compiles to
//
//	parse_number(input).and_then(|__map_var| Ok(__map_var)).map(|__map_var| double(__map_var))? as f64
//
// # Step markers
//
// The character written directly after "=>" selects the [StepKind]:
//
//	=>    Basic     op(x)
//	=>&   AndThen   x.and_then(|__map_var| op(__map_var))
//	=>@   Map       x.map(|__map_var| op(__map_var))
//	=>?   Try       op(x?)
//	=>*   Unwrap    op(x.unwrap())
//	=>+   Clone     op(x.clone())
//	=>#   Apply     { let __var_N = x; op(&__var_N); __var_N }
//	=>$   ApplyMut  { let mut __var_N = x; op(&mut __var_N); __var_N }
//
// # Operations
//
// The first form that matches is used:
//
//	...            pass the value through ([NoOp])
//	.name(args)    method call on the value ([MethodCall])
//	(as T)         cast ([ConvertAs])
//	(T)            T::from ([ConvertFrom])
//	(T?)           T::try_from ([ConvertTryFrom])
//	name(args)     function call ([Call])
//	|p| body       closure call ([Closure])
//
// A function call receives the value in place of the first () argument, or
// as a new first argument if there is none:
//
//	x => f(a, (), b)   // f(a, x, b)
//	x => f(a, b)       // f(x, a, b)
//
// The names written into generated code (and_then, __var_, ...) can be
// changed with [WithNames].
package pipe
