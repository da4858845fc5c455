// Package decode turns a parsed QRDA document into a Node graph.
//
// The Engine walks the XML depth first. Elements that carry a template id
// are handed to the decoder registered for that id and produce exactly one
// Node; elements without one are structural and only passed through. Each
// conversion runs against its own Session so validation findings never leak
// between files decoded in parallel.
package decode
