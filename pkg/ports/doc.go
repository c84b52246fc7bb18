/*
Package ports defines the driven ports (interfaces) of the automaton engine.

These interfaces decouple the core from external implementations, so designs can
be kept in memory, on disk or in Redis without the designer or executor knowing.

# Key Interfaces

  - DesignStore: persists serialized designs (schema.Code) by id.
  - DistributedLocker: serializes concurrent edits of a design across instances.
  - Executor: the judge-facing execution surface implemented by internal/runtime.
*/
package ports
