// Package platform evaluates platform conditions attached to dependency edges
// against a target platform.
//
// # Overview
//
// Build tools allow dependencies to apply only on some platforms. A condition
// is written either as a cfg() expression or as a bare target triple:
//
//	cfg(all(unix, target_arch = "x86_64"))
//	x86_64-pc-windows-gnu
//
// [Parse] turns such a string into a [Spec]; [Spec.Eval] evaluates it against
// a [Platform] built with [New]:
//
//	spec, err := platform.Parse(`cfg(any(windows, target_arch = "x86_64"))`)
//	linux, err := platform.New("x86_64-unknown-linux-gnu", platform.NoFeatures())
//	spec.Eval(linux) // platform.True
//
// # Tri-state Results
//
// Evaluation returns [True], [False] or [Unknown]. Unknown is produced when an
// expression asks about target features and the platform was created with
// [UnknownFeatures]. all() and any() propagate Unknown only when no operand
// already decides the result.
//
// # Errors
//
// Parse and New return a *[ParseError] whose Kind is one of [InvalidCfg],
// [UnknownTriple] or [UnknownPredicate]. Unrecognised key = "value" keys are
// rejected; unrecognised bare flags are accepted and evaluate to false unless
// the platform sets them with [Platform.WithFlags].
//
// # Concurrency
//
// Specs and Platforms are immutable after construction and safe to share
// across goroutines.
package platform
