// Package executor runs GraphQL operations level by level over a Runtime.
//
// Fields come in two kinds, chosen by schema.Field.Async. The directive
// runtime marks a field async when a resolver directive backs it; plain
// property reads stay sync.
//
// Each depth goes through the same steps:
//
//  1. Sync fields are resolved in place through Runtime.ResolveSync and
//     completed at once. Objects they return are expanded in the same depth.
//  2. Async fields found along the way are queued. When the depth is fully
//     expanded, the queue goes to Runtime.BatchResolveAsync in one call, and
//     results come back in task order.
//  3. Objects returned by the batch seed the next depth.
//
// An operation whose async fields nest d levels deep calls BatchResolveAsync
// exactly d times.
//
// Completion follows GraphQL rules. Leaves are serialized by the runtime,
// interfaces and unions are narrowed with Runtime.ResolveType and checked
// against the schema, and a null in a Non-Null position nulls the nearest
// nullable ancestor. Tasks queued below a nulled path are dropped before the
// next batch.
//
// Errors do not stop execution. Each one carries its path and the location of
// the first field node of its group, and errors built with errbuilder expose
// their code under extensions.code. Variable coercion errors are the
// exception: they end the request before any field runs, with no data.
//
// Subscriptions are rejected.
package executor
