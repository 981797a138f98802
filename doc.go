/*
Package ren implements an interpreter for the Ren programming language.

Ren is a small homoiconic language in the Rebol family. A program is plain
data: the loader turns source text into blocks of values, and the evaluator
walks those blocks, giving meaning to words by the contexts they are bound
in. Code and data are the same shape, so a program can build, inspect, and
evaluate other programs with the ordinary series operations.

The interpreter embeds in another program easily. NewVM creates and
initializes an interpreter; DoString loads, binds, and evaluates source; the
VM's Lib and User contexts expose the built-in and script-level definitions
for the host to read or extend. AddNative installs a Go function as a
callable action from a one-line spec string.

Ren Primer

Hello World in Ren:

	print "Hello, world!"

Evaluation proceeds one expression at a time. print is a word; it is bound
in the library context to an action taking one argument, so the evaluator
gathers the next expression, the string literal, and applies the action.

Values are written the way they print. Words come in several flavors that
control evaluation rather than naming different things:

	x: 10      ; a set-word stores the next value
	x          ; a word evaluates what it is bound to
	:x         ; a get-word fetches without evaluating actions
	'x         ; a lit-word yields the word itself

Blocks in square brackets are inert data until evaluated, which is how
control flow works without special syntax. if, loop, and friends are plain
actions whose arguments happen to be blocks:

	if x > 5 [print "big"]
	loop 3 [print "again"]

Functions are actions made from a spec block and a body block:

	double: func [n] [n * 2]

Each call binds the parameter words to a fresh frame, and return inside the
body unwinds exactly the call that created it, no matter where the word has
traveled. Series values are positions into shared buffers: append, insert,
and remove change the buffer every alias sees, while next, skip, and head
move the position without copying. An object is a context reified as a
value; paths select into objects and series alike:

	obj: make object! [name: "ren"]
	print obj/name

The interpreter manages script-visible lifetime with its own mark-and-sweep
collector over series and contexts, so cyclic structures are reclaimed once
unreachable, and a reified frame! or a word binding keeps exactly what it
needs alive.
*/
package ren
