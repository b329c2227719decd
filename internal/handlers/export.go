package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"seiso-backend/internal/store"
)

// ExportHandler serves saved artifacts as downloadable attachments in
// the shapes the store has always produced.
type ExportHandler struct {
	store *store.Store
}

func NewExportHandler(st *store.Store) *ExportHandler {
	return &ExportHandler{store: st}
}

// Ad serves one campaign as a plain-text attachment.
func (h *ExportHandler) Ad(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	db := h.store.Load(r.Context())

	for _, ad := range db.Ads {
		if ad.ID != id {
			continue
		}
		content := fmt.Sprintf("PRODUCTO: %s\nPRECIO: S/ %s\nESTRATEGIA: %s\n\nCOPY PARA REDES:\n%s",
			ad.ProductName, ad.Price, ad.Strategy, ad.GeneratedCopy)
		writeAttachment(w, attachmentName("Ad", ad.ProductName, "txt"), "text/plain; charset=utf-8", []byte(content))
		return
	}
	writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Campaign not found", r))
}

// Carousel serves one carousel project as a JSON attachment.
func (h *ExportHandler) Carousel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	db := h.store.Load(r.Context())

	for _, c := range db.Carousels {
		if c.ID != id {
			continue
		}
		writeJSONAttachment(w, attachmentName("Carrusel", c.Topic, "json"), c)
		return
	}
	writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Carousel not found", r))
}

// videoExport mirrors the shooting-script shape users already feed to
// their video tools, with Spanish field names.
type videoExport struct {
	Producto  string               `json:"producto"`
	Musica    string               `json:"musica"`
	Segmentos []videoExportSegment `json:"segmentos"`
}

type videoExportSegment struct {
	Tiempo      string `json:"tiempo"`
	Narracion   string `json:"narracion"`
	Camara      string `json:"camara"`
	Iluminacion string `json:"iluminacion"`
	PromptVideo string `json:"prompt_generacion_video"`
}

// Video serves one video project as its shooting-script JSON.
func (h *ExportHandler) Video(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	db := h.store.Load(r.Context())

	for _, v := range db.Videos {
		if v.ID != id {
			continue
		}
		export := videoExport{
			Producto: v.ProductName,
			Musica:   v.SunoPrompt,
		}
		for _, seg := range v.Segments {
			export.Segmentos = append(export.Segmentos, videoExportSegment{
				Tiempo:      seg.TimeRange,
				Narracion:   seg.VisualDescription,
				Camara:      seg.CameraMovement,
				Iluminacion: seg.Lighting,
				PromptVideo: seg.VideoPrompt,
			})
		}
		writeJSONAttachment(w, attachmentName("Guion_Viral", v.ProductName, "json"), export)
		return
	}
	writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Video project not found", r))
}

// Database serves the entire database as a dated backup file.
func (h *ExportHandler) Database(w http.ResponseWriter, r *http.Request) {
	db := h.store.Load(r.Context())
	name := fmt.Sprintf("Seiso_Backup_%s.json", time.Now().Format("2006-01-02"))
	writeJSONAttachment(w, name, db)
}

func attachmentName(prefix, label, ext string) string {
	label = strings.Join(strings.Fields(label), "_")
	return fmt.Sprintf("%s_%s.%s", prefix, label, ext)
}

func writeAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSONAttachment(w http.ResponseWriter, filename string, data interface{}) {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		payload = []byte("{}")
	}
	writeAttachment(w, filename, "application/json", payload)
}
