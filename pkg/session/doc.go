/*
Package session orchestrates visitor form sessions.

Manager serializes read-modify-write access to one session with a ref-counted
in-process mutex and, optionally, a distributed lock shared by every replica.
Dispatcher drives the form controller on top of it: blur and input events run
entirely under the session lock, while a submit is split in three phases so
that the backend call happens with the lock released.
*/
package session
