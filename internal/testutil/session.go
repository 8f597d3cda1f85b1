package testutil

// StaticSession is a session checker with a fixed answer.
type StaticSession bool

// Active implements tasklist.Session.
func (s StaticSession) Active() bool { return bool(s) }

// Answer is a fixed confirmation answer.
type Answer bool

// Confirm implements tasklist.Confirmer.
func (a Answer) Confirm(prompt string) bool { return bool(a) }
