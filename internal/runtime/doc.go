/*
Package runtime is the dialogue engine.

Engine.Handle takes one customer message for a session and produces exactly one
domain.Reply. It loads the session, checks inactivity, captures the language at
the root menu, routes by state prefix to the bill, solar and fault flows, and
otherwise dispatches on node kind (menu, form, message/classification, end).

The engine holds no per-session state of its own; every collaborator is
injected through an Option. Sessions are loaded, created and saved through a
session.Manager, using its lock-free variants, so Handle must run inside
Manager.WithLock for the session.
*/
package runtime
