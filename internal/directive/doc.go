// Package directive resolves schema directive annotations to the Go values
// that implement them and classifies those values by capability.
//
// # Resolution
//
// A directive written as @name is looked up by class identifier. The
// identifier for a namespace ns is
//
//	ns + "." + Studly(name) + "Directive"
//
// so @rulesForArray in namespace github.com/acme/app/graph resolves to
// github.com/acme/app/graph.RulesForArrayDirective. Identifiers live in a
// Registry of constructors filled at init time with Register or RegisterIn.
//
// The Factory searches namespaces in priority order:
//  1. the configured namespaces (config key "namespaces.directives"),
//  2. namespaces contributed by NamespaceProvider callbacks,
//  3. the built-in namespace.
//
// The first namespace holding a matching identifier wins, which lets an
// application shadow a plugin directive and a plugin shadow a built-in one.
// Successful lookups are remembered by name; the first recorded identifier
// for a name sticks until SetResolved or ClearResolved changes it.
//
// # Hydration
//
// Values implementing Hydrator are bound to the schema node that declared
// them, which gives them access to their own arguments. Every Create call
// builds a fresh value, so a bound directive never sees another node.
//
// # Capabilities
//
// A directive implements any subset of the capability interfaces in this
// package (FieldResolver, FieldMiddleware, ArgTransformer, ...).
// OfCapability and SingleOfCapability filter the directives on a node by
// capability; the single variant rejects nodes declaring more than one.
package directive
