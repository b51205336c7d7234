// Package executil runs external commands with timeout handling, output
// capture and filtering, and a guard against shell injection.
//
// The central entry point is Runner.Run, which reports the outcome as a
// Result instead of an error:
//
//	runner := executil.New()
//	res := runner.RunString(ctx, "echo 42")
//
//	if res.Succeeded {
//	    fmt.Println(res.Stdout)
//	}
//
// Commands are always executed directly, never through a shell. Command
// strings are split with shell-lexical quoting rules, so quoted whitespace
// survives; see Split.
package executil
