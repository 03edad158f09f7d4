package server

import (
	"encoding/json"
	"net/http"

	"github.com/guided-traffic/http-ingest/internal/ingest"
)

// partSummary describes one multipart part in an inspect response.
type partSummary struct {
	Name        string `json:"name"`
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size"`
}

// inspectResponse describes the parse outcome for a request.
type inspectResponse struct {
	Parsed bool   `json:"parsed"`
	Kind   string `json:"kind,omitempty"`

	JSON      interface{}       `json:"json,omitempty"`
	Form      map[string]string `json:"form,omitempty"`
	TextBytes int               `json:"text_bytes,omitempty"`
	RawBytes  int               `json:"raw_bytes,omitempty"`
	Parts     []partSummary     `json:"parts,omitempty"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		s.logger.WithError(err).Error("Failed to write health response")
	}
}

// handleVersion serves build information
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"service":    "http-ingest",
		"version":    version,
		"commit":     commit,
		"build_time": buildTime,
	})
}

// handleInspect reports what the ingestion stage made of the request body.
// It only ever reads the parsed result from the context; the socket has
// already been drained by the stage.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	body := ingest.BodyFromContext(r.Context())
	if body == nil {
		s.writeJSON(w, http.StatusOK, inspectResponse{Parsed: false})
		return
	}

	resp := inspectResponse{Parsed: true, Kind: body.Kind.String()}
	switch body.Kind {
	case ingest.KindJSON:
		resp.JSON = body.JSON
	case ingest.KindForm:
		resp.Form = body.Form
	case ingest.KindText:
		resp.TextBytes = len(body.Text)
	case ingest.KindRaw:
		resp.RawBytes = len(body.Raw)
	case ingest.KindMultipart:
		resp.Parts = make([]partSummary, 0, len(body.Parts))
		for _, part := range body.Parts {
			resp.Parts = append(resp.Parts, partSummary{
				Name:        part.Name,
				FileName:    part.FileName,
				ContentType: part.ContentType,
				Size:        len(part.Data),
			})
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleEcho plays the parsed body back to the client. Requests with no
// parsed body get 204: absence means "not parseable or not present", never
// an error.
func (s *Server) handleEcho(w http.ResponseWriter, r *http.Request) {
	body := ingest.BodyFromContext(r.Context())
	if body == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch body.Kind {
	case ingest.KindJSON:
		s.writeJSON(w, http.StatusOK, body.JSON)
	case ingest.KindForm:
		s.writeJSON(w, http.StatusOK, body.Form)
	case ingest.KindText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(body.Text)); err != nil {
			s.logger.WithError(err).Error("Failed to write echo response")
		}
	case ingest.KindRaw:
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body.Raw); err != nil {
			s.logger.WithError(err).Error("Failed to write echo response")
		}
	case ingest.KindMultipart:
		payload := make(map[string]string, len(body.Parts))
		for _, part := range body.Parts {
			payload[part.Name] = string(part.Data)
		}
		s.writeJSON(w, http.StatusOK, payload)
	}
}

// writeJSON writes v as a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to write JSON response")
	}
}
