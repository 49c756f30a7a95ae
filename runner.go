// runner.go — one-shot execution of bcc source text.
package bcc

import "io"

// Version is the interpreter version reported by the CLI.
const Version = "0.1.0"

// RunSource scans, parses and executes src with a fresh evaluator, sending
// print output to out. Any error comes back fully rendered against the
// source text under the given name.
func RunSource(name, src string, out io.Writer) error {
	tokens, err := Scan(src)
	if err != nil {
		return WrapErrorWithName(err, name, src)
	}
	prog, err := Parse(tokens)
	if err != nil {
		return WrapErrorWithName(err, name, src)
	}
	ev := NewEvaluatorWithOutput(out)
	if err := ev.Run(prog); err != nil {
		return WrapErrorWithName(err, name, src)
	}
	return nil
}
