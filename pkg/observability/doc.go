/*
Package observability turns executor lifecycle events into metrics and logs.

Metrics registers Prometheus collectors and exposes them as domain.LifecycleHooks;
LogHooks does the same for structured logging, and Chain combines both.
*/
package observability
