/*
Package ports defines the driven ports (interfaces) of the gridline engine.

These interfaces decouple the dialogue core from storage backends, remote
services and transports. Adapters in pkg/adapters implement them.

# Key Interfaces

  - GraphLoader: Produces node definitions (e.g., from YAML flow files).
  - SessionStore: Persists and loads sessions by ID.
  - DistributedLocker: Serializes access to one session across replicas.
  - VerificationClient: Account-number and contact-number lookups.
  - IntentClassifier: Maps free text to category labels.
  - Advisor: Free-form solar Q&A service.
  - TranscriptSink: Archives finished or expired sessions.
*/
package ports
