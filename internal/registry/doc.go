// Package registry maps template ids to the decoders and encoders that own
// them.
//
// Registrations are collected on a Builder during process start and frozen
// by Build. The resulting Registry is immutable, so workers converting
// different files look handlers up concurrently without locks. Template ids
// nobody registered resolve to DefaultDecoder and DefaultEncoder so unknown
// document sections never fail a conversion.
package registry
