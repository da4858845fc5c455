// Package node defines the generic labelled tree shared by the decode and
// encode passes.
//
// A Node carries the template id of the document section it was decoded
// from, an ordered set of string values, and its children in source order.
// Decoders build the graph; encoders only read it.
package node
