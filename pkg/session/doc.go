/*
Package session serializes access to dialogue sessions.

A Manager wraps a ports.SessionStore with per-session in-process mutexes and,
optionally, a ports.DistributedLocker so several replicas can share one store.
Locks are reference counted and dropped once no caller holds them.

Load, LoadOrStart, Save and Delete take the lock themselves. Code already
running inside WithLock uses the Locked variants instead, which would
otherwise deadlock on the same session.
*/
package session
