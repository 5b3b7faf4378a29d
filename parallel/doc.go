// Package parallel provides bounded-parallel helpers for batches of
// cancellable operations.
//
// All helpers preserve a strict input-index-to-output-index correspondence:
// result slot i always belongs to operation or item i, regardless of the
// order in which work completes. Concurrency bounds are enforced with
// golang.org/x/sync semaphores and errgroups.
//
//   - All: run a slice of operations with bounded concurrency, results in
//     input order, first failure propagated after in-flight work drains.
//
//   - Batch: partition items into consecutive batches, process them under a
//     global concurrency bound, failed items leave zero-valued slots.
//
//   - CollectTimeout: run operations under one shared deadline; slots of
//     operations that miss it hold zero values, finished slots keep their
//     real results.
//
//   - Race: return the first successful result, discarding the rest.
//
//   - ForEach: apply an action to every item with bounded parallelism.
package parallel
