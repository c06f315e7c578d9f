/*
Package observability turns engine lifecycle hooks into logs and Prometheus
metrics.

Metrics.Hooks and LoggingHooks each return a domain.LifecycleHooks value;
Combine fans several of them out so the engine only takes one.
*/
package observability
