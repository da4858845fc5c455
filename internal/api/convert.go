package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/elnormous/contenttype"

	"qrdaconv/internal/logging"
	"qrdaconv/internal/services"
)

var (
	jsonMediaType  = contenttype.NewMediaType("application/json")
	jsonMediaTypes = []contenttype.MediaType{jsonMediaType}
	xmlMediaTypes  = []contenttype.MediaType{
		contenttype.NewMediaType("application/xml"),
		contenttype.NewMediaType("text/xml"),
	}
)

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithContext(r.Context(), s.logger)

	ctype, err := contenttype.GetMediaType(r)
	if err != nil || ctype.Type == "" || !acceptsXML(ctype) {
		writeError(w, http.StatusUnsupportedMediaType, "content-type must be application/xml or text/xml")
		return
	}
	if _, _, err := contenttype.GetAcceptableMediaType(r, jsonMediaTypes); err != nil {
		writeError(w, http.StatusNotAcceptable, "response is only available as application/json")
		return
	}

	opts := s.conv.Options()
	if opts.SkipValidation, err = boolParam(r, "skipValidation", opts.SkipValidation); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if opts.SkipDefaults, err = boolParam(r, "skipDefaults", opts.SkipDefaults); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body exceeds "+strconv.FormatInt(s.maxBody, 10)+" bytes")
			return
		}
		writeError(w, http.StatusBadRequest, "read request body: "+err.Error())
		return
	}

	doc, err := s.conv.ConvertBytes(r.Context(), body, opts)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			logging.ErrorWithContext(logger, "conversion failed", "api_convert_failure",
				logging.String("failure_kind", services.FailureKind(err)),
				logging.Error(err),
			)
		} else {
			logger.Debug("conversion rejected",
				logging.String("failure_kind", services.FailureKind(err)),
				logging.Error(err),
			)
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func acceptsXML(ctype contenttype.MediaType) bool {
	for _, mt := range xmlMediaTypes {
		if ctype.Matches(mt) {
			return true
		}
	}
	return false
}

func boolParam(r *http.Request, name string, fallback bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New("query parameter " + name + " must be a boolean")
	}
	return v, nil
}

func statusFor(err error) int {
	switch services.FailureKind(err) {
	case "decode", "usage":
		return http.StatusUnprocessableEntity
	case "cancelled":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
