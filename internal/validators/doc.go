// Package validators checks selected XML document nodes against value sets
// and loaded code systems.
//
// A NodeValidator is stateless and runs once per selected node. The value
// set validators share one protocol: extract an attribute, normalize it,
// confirm at least one configured value set is loaded, then test
// containment in the union of the configured value sets. Success is silent;
// a miss yields one result at the configured severity.
//
// DocumentValidator ties the pieces together: it parses a document,
// evaluates every configured expression, runs the named validators on each
// selected node and aggregates the results in document order.
package validators
