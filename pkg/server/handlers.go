package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mazegen/pkg/errors"
	"github.com/matzehuels/mazegen/pkg/export"
	"github.com/matzehuels/mazegen/pkg/grid"
	"github.com/matzehuels/mazegen/pkg/maze"
	"github.com/matzehuels/mazegen/pkg/session"
)

// maxBodyBytes bounds create request bodies.
const maxBodyBytes = 1 << 16

type createResponse struct {
	ID      string          `json:"id"`
	Options session.Options `json:"options"`
	Cells   int             `json:"cells"`
}

type stepResponse struct {
	Results []maze.Result  `json:"results"`
	Status  session.Status `json:"status"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	opts := s.cfg.Defaults
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &opts); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode session options"))
			return
		}
	}
	opts.SetDefaults()
	if err := errors.ValidateDimensions(opts.Width, opts.Height, 0); err != nil {
		writeError(w, err)
		return
	}

	sess, err := session.New(opts)
	if err != nil {
		writeError(w, translate(err))
		return
	}
	if err := s.admit(r.Context(), sess); err != nil {
		writeError(w, translate(err))
		return
	}
	s.logger.Info("session created", "session", sess.ID, "width", opts.Width, "height", opts.Height, "seed", sess.Options.Seed)

	writeJSON(w, http.StatusCreated, createResponse{
		ID:      sess.ID,
		Options: sess.Options,
		Cells:   sess.Graph().Len(),
	})
}

// admit stores sess, first evicting the oldest sessions until it fits.
func (s *Server) admit(ctx context.Context, sess *session.Session) error {
	s.admitMu.Lock()
	defer s.admitMu.Unlock()

	all, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	for i := 0; len(all)-i >= s.cfg.MaxSessions; i++ {
		if err := s.store.Delete(ctx, all[i].ID); err != nil {
			return err
		}
		s.logger.Debug("session evicted", "session", all[i].ID)
	}
	return s.store.Put(ctx, sess)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, translate(err))
		return
	}
	out := make([]session.Status, len(all))
	for i, sess := range all {
		out[i] = sess.Status()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Status())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		writeError(w, translate(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) stepSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	n := 1
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 2*errors.MaxCells {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "n must be an integer between 1 and %d", 2*errors.MaxCells))
			return
		}
		n = v
	}

	results := sess.StepN(n)
	st := sess.Status()
	if len(results) > 0 && results[len(results)-1].Kind == maze.KindComplete {
		s.logger.Info("session complete", "session", sess.ID, "steps", st.Steps)
	}
	writeJSON(w, http.StatusOK, stepResponse{Results: results, Status: st})
}

func (s *Server) getCell(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	key, err := grid.ParseKey(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, translate(err))
		return
	}
	c, ok := sess.Graph().Cell(key)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeUnknownCell, "cell %s not in grid", key))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) getWalls(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, export.Walls(sess.Graph()))
}

var contentTypes = map[string]string{
	export.FormatJSON: "application/json",
	export.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	export.FormatSVG:  "image/svg+xml",
	export.FormatTXT:  "text/plain; charset=utf-8",
}

func (s *Server) exportSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatJSON
	}
	if !export.IsFormat(format) {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "unknown format %q", format))
		return
	}
	potential := r.URL.Query().Get("potential") == "true"

	var buf bytes.Buffer
	hit, err := export.WriteCached(r.Context(), s.cache, artifactTTL, &buf, sess.Graph(), format, export.DOTOptions{Potential: potential})
	if err != nil {
		s.logger.Error("export failed", "session", sess.ID, "format", format, "err", err)
		writeError(w, err)
		return
	}
	if export.Cacheable(format) {
		status := "miss"
		if hit {
			status = "hit"
		}
		w.Header().Set("X-Cache", status)
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(buf.Bytes())
}

// lookup resolves the {id} URL parameter, writing a 404 if it is unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, translate(err))
		return nil, false
	}
	return sess, true
}

// translate maps session and core errors to coded errors.
func translate(err error) error {
	switch {
	case stderrors.Is(err, session.ErrNotFound):
		return errors.Wrap(errors.ErrCodeSessionNotFound, err, "session not found")
	case stderrors.Is(err, session.ErrInvalidOptions):
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", err.Error())
	}
	return errors.FromGraph(err)
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(code), errorBody{Error: errorDetail{
		Code:    code,
		Message: errors.UserMessage(err),
	}})
}
