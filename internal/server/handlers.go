package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/image/math/f32"

	"github.com/Ramstar757/TracerStar/internal/canvas"
	"github.com/Ramstar757/TracerStar/internal/color"
	"github.com/Ramstar757/TracerStar/internal/imaging"
	"github.com/Ramstar757/TracerStar/internal/logging"
	"github.com/Ramstar757/TracerStar/internal/page"
	"github.com/Ramstar757/TracerStar/internal/renderer"
	"github.com/Ramstar757/TracerStar/internal/stroke"
)

type ctxKey struct{}

func documentFrom(ctx context.Context) *canvas.Document {
	d, _ := ctx.Value(ctxKey{}).(*canvas.Document)
	return d
}

// loadDocument resolves {id} and stores the document in the request context.
func (s *Server) loadDocument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, err := s.store.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, d)))
	})
}

type documentResponse struct {
	ID         string `json:"id"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	MaskPixels int    `json:"maskPixels"`
	CanUndo    bool   `json:"canUndo"`
	CanRedo    bool   `json:"canRedo"`
	History    int    `json:"history"`
}

func newDocumentResponse(id string, d *canvas.Document) documentResponse {
	info := d.Info()
	return documentResponse{
		ID:         id,
		Width:      info.Width,
		Height:     info.Height,
		MaskPixels: info.MaskPixels,
		CanUndo:    info.CanUndo,
		CanRedo:    info.CanRedo,
		History:    info.History,
	}
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"documents": s.store.IDs()})
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	opts := page.DefaultOptions()
	opts.MaxDimension = s.cfg.MaxDimension
	if v := r.URL.Query().Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, badRequest("max must be a non-negative integer, got %q", v))
			return
		}
		opts.MaxDimension = n
	}

	photo, err := imaging.Decode(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if !errors.As(err, &tooBig) && !errors.Is(err, imaging.ErrUnsupportedFormat) {
			err = badRequest("decoding photo: %v", err)
		}
		writeError(w, err)
		return
	}
	opts.Orientation = photo.Orientation

	p, err := page.Generate(photo.Image, opts)
	if err != nil {
		writeError(w, badRequest("%v", err))
		return
	}
	d, err := canvas.FromPage(p)
	if err != nil {
		writeError(w, badRequest("%v", err))
		return
	}
	id, err := s.store.Add(d)
	if err != nil {
		writeError(w, err)
		return
	}
	logging.Logger().Info("document created", "id", id,
		"format", photo.Format, "width", d.Size().X, "height", d.Size().Y)
	writeJSON(w, http.StatusCreated, newDocumentResponse(id, d))
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newDocumentResponse(chi.URLParam(r, "id"), documentFrom(r.Context())))
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) displayPNG(w http.ResponseWriter, r *http.Request) {
	writePNG(w, documentFrom(r.Context()).Base().Image())
}

func (s *Server) maskPNG(w http.ResponseWriter, r *http.Request) {
	img := renderer.MaskImage(documentFrom(r.Context()).Mask())
	if img == nil {
		writeError(w, &httpError{status: http.StatusNotFound, msg: "document has no boundary mask"})
		return
	}
	writePNG(w, img)
}

func (s *Server) overlayPNG(w http.ResponseWriter, r *http.Request) {
	writePNG(w, renderer.OverlayImage(documentFrom(r.Context()).Snapshot()))
}

func (s *Server) compositePNG(w http.ResponseWriter, r *http.Request) {
	writePNG(w, documentFrom(r.Context()).Composite())
}

type fillRequest struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
	Mode  string `json:"mode"` // "adult" (default) or "kids"
}

type fillResponse struct {
	Painted   int              `json:"painted"`
	Truncated bool             `json:"truncated"`
	Document  documentResponse `json:"document"`
}

func (s *Server) fill(w http.ResponseWriter, r *http.Request) {
	var req fillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := color.ParseHex(req.Color)
	if err != nil {
		writeError(w, badRequest("color: %v", err))
		return
	}
	var mode canvas.FillMode
	switch req.Mode {
	case "", "adult":
		mode = canvas.Adult
	case "kids":
		mode = canvas.Kids
	default:
		writeError(w, badRequest("mode must be adult or kids, got %q", req.Mode))
		return
	}

	d := documentFrom(r.Context())
	res := d.Fill(image.Pt(req.X, req.Y), c, mode)
	writeJSON(w, http.StatusOK, fillResponse{
		Painted:   res.Painted,
		Truncated: res.Truncated,
		Document:  newDocumentResponse(chi.URLParam(r, "id"), d),
	})
}

type strokeRequest struct {
	Tool    string     `json:"tool"`
	Color   string     `json:"color"`
	Width   float32    `json:"width"`
	Opacity *float64   `json:"opacity"`
	Points  []f32.Vec2 `json:"points"`
}

// strokes replays one whole gesture: a dot at the first point, then a
// segment to each following point.
func (s *Server) strokes(w http.ResponseWriter, r *http.Request) {
	var req strokeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	mode, err := stroke.ParseMode(req.Tool)
	if err != nil {
		writeError(w, badRequest("%v", err))
		return
	}
	if len(req.Points) == 0 {
		writeError(w, badRequest("points must not be empty"))
		return
	}
	if len(req.Points) > s.cfg.MaxStrokePoints {
		writeError(w, badRequest("too many points: %d > %d", len(req.Points), s.cfg.MaxStrokePoints))
		return
	}
	if !(req.Width > 0) {
		writeError(w, badRequest("width must be positive"))
		return
	}
	opts := canvas.StrokeOptions{Mode: mode, Width: req.Width, Opacity: 1}
	if req.Opacity != nil {
		opts.Opacity = *req.Opacity
	}
	if mode != stroke.Erase && mode != stroke.Rainbow {
		if opts.Color, err = color.ParseHex(req.Color); err != nil {
			writeError(w, badRequest("color: %v", err))
			return
		}
	}

	d := documentFrom(r.Context())
	d.BeginStroke(opts, req.Points[0])
	for _, pt := range req.Points[1:] {
		d.MoveStroke(pt)
	}
	d.EndStroke()
	writeJSON(w, http.StatusOK, newDocumentResponse(chi.URLParam(r, "id"), d))
}

type historyResponse struct {
	Changed  bool             `json:"changed"`
	Document documentResponse `json:"document"`
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	d := documentFrom(r.Context())
	changed := d.Undo()
	writeJSON(w, http.StatusOK, historyResponse{changed, newDocumentResponse(chi.URLParam(r, "id"), d)})
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	d := documentFrom(r.Context())
	changed := d.Redo()
	writeJSON(w, http.StatusOK, historyResponse{changed, newDocumentResponse(chi.URLParam(r, "id"), d)})
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	d := documentFrom(r.Context())
	d.Clear()
	writeJSON(w, http.StatusOK, historyResponse{true, newDocumentResponse(chi.URLParam(r, "id"), d)})
}

// httpError carries a status code to writeError.
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &httpError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

func statusOf(err error) int {
	var he *httpError
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &he):
		return he.status
	case errors.Is(err, canvas.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.As(err, &tooBig):
		logging.Logger().Warn("upload too large", "limit", tooBig.Limit)
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logging.Logger().Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writePNG(w http.ResponseWriter, img image.Image) {
	w.Header().Set("Content-Type", "image/png")
	if err := imaging.EncodePNG(w, img); err != nil {
		logging.Logger().Error("encoding PNG response", "err", err)
	}
}
