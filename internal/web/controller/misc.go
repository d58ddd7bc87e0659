package controller

import (
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"wakawaka/internal/preprocess"
	"wakawaka/internal/wikiword"
)

// Misc provides miscellaneous handlers.
type Misc struct {
	Preprocess preprocess.Func
	Linker     *wikiword.Linker
	Log        zerolog.Logger
}

// Register registers the misc routes.
func (m *Misc) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /_preview", m.preview)
}

// preview renders raw editor content through the configured preprocessor
// and linker, for live previews from the edit form.
func (m *Misc) preview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Error reading request body", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	w.Header().Set("Content-Type", "text/html")
	if _, err := w.Write([]byte(m.Linker.Replace(m.Preprocess(string(body))))); err != nil {
		m.Log.Error().Err(err).Msg("error writing preview")
	}
}
