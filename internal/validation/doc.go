// Package validation collects findings produced while a document is decoded.
//
// A Ledger is scoped to a single conversion and owned by the worker running
// it. Findings never stop a conversion on their own; they are surfaced next
// to the converted output.
package validation
