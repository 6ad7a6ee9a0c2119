package playlistserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/a13labs/m3uflat/pkg/logger"
	"github.com/a13labs/m3uflat/pkg/m3uparser"
	"github.com/a13labs/m3uflat/pkg/m3uprovider"
	"github.com/a13labs/m3uflat/pkg/upstream"
	"github.com/elnormous/contenttype"
	"github.com/gorilla/mux"
)

const maxBodySize = 16 << 20

var (
	m3uMediaType  = contenttype.NewMediaType("audio/x-mpegurl")
	jsonMediaType = contenttype.NewMediaType("application/json")

	playlistMediaTypes = []contenttype.MediaType{
		m3uMediaType,
		contenttype.NewMediaType("application/x-mpegurl"),
		contenttype.NewMediaType("audio/mpegurl"),
		jsonMediaType,
	}
)

func healthCheckRequest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeEntries(w http.ResponseWriter, mediaType contenttype.MediaType, entries m3uparser.Entries) {
	if mediaType.Type == jsonMediaType.Type && mediaType.Subtype == jsonMediaType.Subtype {
		writeJSON(w, http.StatusOK, entries)
		return
	}

	w.Header().Set("Content-Type", mediaType.Type+"/"+mediaType.Subtype+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := entries.WriteTo(w); err != nil {
		logger.Errorf("Failed to write playlist: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func (s *Server) getPlaylistRequest(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	config, ok := s.config.Playlist(name)
	if !ok {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return
	}

	mediaType, _, err := contenttype.GetAcceptableMediaType(r, playlistMediaTypes)
	if err != nil {
		http.Error(w, "Not Acceptable", http.StatusNotAcceptable)
		return
	}

	entries, err := m3uprovider.Load(config, s.parser, s.upstreamOpts...)
	if err != nil {
		logger.Errorf("Failed to load playlist %s: %v", name, err)
		http.Error(w, "Failed to load playlist", http.StatusBadGateway)
		return
	}

	EntriesServed.WithLabelValues(name).Add(float64(len(entries)))
	writeEntries(w, mediaType, entries)
}

// parseRequest parses the request body as playlist text. The charset
// parameter of the Content-Type selects the decoding.
func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) {
	charset := ""
	if r.Header.Get("Content-Type") != "" {
		mediaType, err := contenttype.GetMediaType(r)
		if err != nil {
			http.Error(w, "Invalid Content-Type", http.StatusBadRequest)
			return
		}
		charset = upstream.Charset(mediaType)
	}

	enc, err := m3uparser.LookupCharset(charset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	entries, err := s.parser.ParseReader(m3uparser.NewDecodingReader(body, enc), r.URL.Query().Get("base"))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Playlist too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Failed to read playlist", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
