// Package handlers holds the decoders and encoders for the QRDA-III sections
// qrdaconv understands, and the table that registers them.
//
// Decoders pull the values a section needs out of its XML and record
// validation findings against the QRDA implementation guide. Encoders shape
// those values into the QPP submission JSON. Anything not listed in Register
// falls through to the registry's default handlers.
package handlers
