// Package api exposes the converter over HTTP.
//
// The boundary is deliberately small: POST /v1/convert takes a QRDA-III XML
// body and answers with the QPP JSON and the validation findings, and
// GET /health reports liveness. Nothing is stored and no authentication is
// performed.
package api
