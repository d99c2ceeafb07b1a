package server

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// --- Extraction handlers ---

// decodeImagePayload decodes an image payload which is either a data URL
// ("data:image/png;base64,....") or bare base64 (assumed PNG). Returns the
// raw bytes and the MIME type.
func decodeImagePayload(payload string) ([]byte, string, error) {
	mimeType := "image/png"
	data := payload

	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, "", errors.New("malformed data URL")
		}
		header := payload[len("data:"):idx]
		data = payload[idx+1:]
		if semi := strings.Index(header, ";"); semi >= 0 {
			header = header[:semi]
		}
		if header != "" {
			mimeType = header
		}
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", err
	}
	return raw, mimeType, nil
}

// handleExtract handles POST /api/extract. The body carries a screenshot as
// a base64 data URL; the response is the normalized extraction result for
// the client to review before creating positions.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		ImageData string `json:"image_data"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ImageData) == "" {
		WriteError(w, http.StatusBadRequest, "image_data is required")
		return
	}

	raw, mimeType, err := decodeImagePayload(req.ImageData)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "image_data must be base64-encoded")
		return
	}

	result, err := s.app.ExtractService.Extract(r.Context(), raw, mimeType)
	if err != nil {
		s.logger.Error().Err(err).Msg("Screenshot extraction failed")
		WriteError(w, http.StatusBadGateway, "extraction failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   result,
	})
}
