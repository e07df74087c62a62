// Package api serves read-only queries over a loaded bundle.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/matt-g-everett/motiontx/bundle"
	"github.com/matt-g-everett/motiontx/motion"
	"github.com/matt-g-everett/motiontx/preview"
)

// Api answers evaluate and preview queries. Every query is a pure
// evaluation, so it never touches the running controllers.
type Api struct {
	bundle *bundle.Bundle
	mux    *http.ServeMux
}

// TimelineInfo describes one timeline in the /timelines listing.
type TimelineInfo struct {
	Index     int     `json:"index"`
	ID        string  `json:"id"`
	ActorID   string  `json:"actorId"`
	Duration  float64 `json:"duration"`
	Keyframes int     `json:"keyframes"`
	Trigger   string  `json:"trigger"`
}

// NewApi creates an Api over b.
func NewApi(b *bundle.Bundle) *Api {
	a := new(Api)
	a.bundle = b
	a.mux = http.NewServeMux()
	a.mux.HandleFunc("GET /timelines", a.handleTimelines)
	a.mux.HandleFunc("GET /evaluate", a.handleEvaluate)
	a.mux.HandleFunc("GET /preview.png", a.handlePreview)
	return a
}

// ServeHTTP implements http.Handler.
func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is cancelled.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	slog.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *Api) handleTimelines(w http.ResponseWriter, _ *http.Request) {
	out := make([]TimelineInfo, len(a.bundle.Timelines))
	for i, tl := range a.bundle.Timelines {
		kind := "manual"
		if b, ok := a.bundle.TriggerFor(i); ok {
			kind = b.Kind().String()
		}
		out[i] = TimelineInfo{
			Index:     i,
			ID:        tl.ID(),
			ActorID:   tl.ActorID(),
			Duration:  tl.Duration(),
			Keyframes: tl.Len(),
			Trigger:   kind,
		}
	}
	writeJSON(w, out)
}

func (a *Api) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	tl, at, err := a.query(r)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, motion.Evaluate(tl, at, a.bundle.MotionOptions()))
}

func (a *Api) handlePreview(w http.ResponseWriter, r *http.Request) {
	tl, at, err := a.query(r)
	if err != nil {
		httpError(w, err)
		return
	}
	actor, ok := a.bundle.Actor(tl.ActorID())
	if !ok {
		httpError(w, fmt.Errorf("%w: actor %q", errNotFound, tl.ActorID()))
		return
	}

	opts := preview.Options{Background: r.URL.Query().Get("bg")}
	if opts.Width, err = dimension(r, "w"); err != nil {
		httpError(w, err)
		return
	}
	if opts.Height, err = dimension(r, "h"); err != nil {
		httpError(w, err)
		return
	}
	dc, err := preview.Render(actor, motion.Evaluate(tl, at, a.bundle.MotionOptions()), opts)
	if err != nil {
		httpError(w, err)
		return
	}
	defer dc.Close()

	w.Header().Set("Content-Type", "image/png")
	if err := dc.EncodePNG(w); err != nil {
		slog.Warn("preview not written", "err", err)
	}
}

var (
	errNotFound   = errors.New("not found")
	errBadRequest = errors.New("bad request")
)

// query reads the timeline and t parameters.
func (a *Api) query(r *http.Request) (*motion.Timeline, float64, error) {
	q := r.URL.Query()
	i, err := strconv.Atoi(q.Get("timeline"))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: timeline must be an index", errBadRequest)
	}
	if i < 0 || i >= len(a.bundle.Timelines) {
		return nil, 0, fmt.Errorf("%w: timeline %d", errNotFound, i)
	}
	var at float64
	if s := q.Get("t"); s != "" {
		if at, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, 0, fmt.Errorf("%w: t must be a number", errBadRequest)
		}
	}
	return a.bundle.Timelines[i], at, nil
}

// maxPreviewSize bounds each side of a preview canvas.
const maxPreviewSize = 4096

// dimension reads a canvas size parameter. Absent means the preview default.
func dimension(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > maxPreviewSize {
		return 0, fmt.Errorf("%w: %s must be between 0 and %d", errBadRequest, name, maxPreviewSize)
	}
	return n, nil
}

func httpError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest):
		code = http.StatusBadRequest
	case errors.Is(err, errNotFound):
		code = http.StatusNotFound
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response not written", "err", err)
	}
}
