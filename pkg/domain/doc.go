/*
Package domain contains the core domain models of the gridline dialogue engine.

It defines the conversation graph vertices, the per-customer session cursor and
the structured replies handed back to transports. The package is kept free of
I/O so that adapters and the runtime can share the same vocabulary.

# Key Entities

  - Node: A vertex in the conversation graph (menu, form, message, classification or end).
  - Session: One customer's in-progress conversation (state cursor, language, scratch, history).
  - Reply: What the engine answers for a single message, including a transport status hint.
  - Transcript: The archived form of a session, written when it ends or expires.
*/
package domain
