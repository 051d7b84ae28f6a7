// Package harness provides a YAML-driven conformance framework for
// transform programs.
//
// A scenario pairs a graph fixture (inline N-Triples or a file) with a
// program reference (a stored name or inline source plus media type) and
// runs the selected transform against the graph. The serialized Result is
// compared against a golden file, so the scenario corpus doubles as a
// record of the exact output shapes.
//
// Scenarios that expect a failure name the error code instead; the
// harness then requires that exact code and captures it in the golden
// output.
//
// Each named-program scenario runs against a fresh in-memory store, so
// only the builtin program set ("default", "deluxe") resolves.
package harness
