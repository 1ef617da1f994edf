// Package directives holds the built-in schema directives. Importing the
// package registers every directive in directive.BuiltinNamespace, the last
// namespace a Factory searches, so applications can shadow any of them.
package directives
