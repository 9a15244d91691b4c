/*
Package errors provides the coded errors of lockbox.

Every extension registers its own root errors with Register, picking a code
that no other package uses. The code travels to clients in the ABCI
response, so a client can tell a locked deposit from a missing one without
parsing messages.

Errors are created where they happen with ErrXyz.New, ErrXyz.Newf or Wrap.
The first wrap records a stack trace; later wraps only add text.

	%s  prints the message chain
	%+v prints the message chain and the stack trace
*/
package errors
