// Package server serves the pipeline as a web page: four slot selectors,
// a run button and the plots, players and downloads of the last run.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"
	"sync"
	"time"

	fdm "github.com/tphakala/go-audio-fdm"
	"github.com/tphakala/go-audio-fdm/internal/report"
)

// DefaultAddr is the listen address of the GUI.
const DefaultAddr = ":8501"

// Messages shown on the page.
const (
	MsgInputsMissing = "Input files not found! Please ensure input WAVs are in the root directory."
	MsgInvalidOrder  = "Please select 4 UNIQUE channels (permutation of 1,2,3,4)!"
	MsgStart         = "Click 'RUN DSP PIPELINE' to start."
)

const (
	runPath   = "/run"
	filesPath = "/files/"
)

var contentTypes = map[string]string{
	".wav": "audio/wav",
	".png": "image/png",
}

// Logf receives request logs. It may be nil.
type Logf func(format string, args ...any)

// Server holds the pipeline, the input files and the result of the last run.
type Server struct {
	pipeline *fdm.Pipeline
	file1    string
	file2    string
	bitDepth int
	logf     Logf

	mu     sync.Mutex
	order  []int
	view   *report.View
	assets map[string][]byte
	runAt  time.Time
}

// New returns a server that runs p on file1 and file2. bitDepth selects
// the PCM depth of served WAVs.
func New(p *fdm.Pipeline, file1, file2 string, bitDepth int, logf Logf) *Server {
	return &Server{
		pipeline: p,
		file1:    file1,
		file2:    file2,
		bitDepth: bitDepth,
		logf:     logf,
		order:    fdm.DefaultOrder(),
	}
}

// Handler returns the HTTP routes of the GUI.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST "+runPath, s.handleRun)
	mux.HandleFunc("GET "+filesPath+"{name}", s.handleFile)
	return mux
}

// ListenAndServe serves the GUI on addr until the server fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) log(format string, args ...any) {
	if s.logf != nil {
		s.logf(format, args...)
	}
}

// inputsMissing reports the input files that do not exist.
func (s *Server) inputsMissing() []string {
	var missing []string
	for _, f := range []string{s.file1, s.file2} {
		if _, err := os.Stat(f); err != nil {
			missing = append(missing, f)
		}
	}
	return missing
}

func (s *Server) page(selection []int) *report.Page {
	page := &report.Page{
		Title:  report.DefaultTitle,
		Inputs: []string{s.file1, s.file2},
	}
	if missing := s.inputsMissing(); len(missing) > 0 {
		page.Error = MsgInputsMissing
		return page
	}

	s.mu.Lock()
	if selection == nil {
		selection = s.order
	}
	page.Result = s.view
	s.mu.Unlock()

	labels := make([]string, fdm.NumChannels)
	for i := range labels {
		labels[i] = fdm.ChannelName(i + 1)
	}
	page.Form = report.NewForm(runPath, labels, selection)
	if page.Result == nil {
		page.Info = MsgStart
	}
	return page
}

func (s *Server) render(w http.ResponseWriter, status int, page *report.Page) {
	var buf bytes.Buffer
	if err := report.WritePage(&buf, page); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, s.page(nil))
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	selection, err := parseSelection(r)
	if err != nil {
		page := s.page(selection)
		if page.Form != nil {
			page.Error = MsgInvalidOrder
		}
		s.render(w, http.StatusBadRequest, page)
		return
	}
	if len(s.inputsMissing()) > 0 {
		s.render(w, http.StatusNotFound, s.page(selection))
		return
	}

	start := time.Now()
	res, err := s.pipeline.Run(s.file1, s.file2, selection)
	if err != nil {
		s.log("pipeline failed for order %s: %v", fdm.FormatOrder(selection), err)
		page := s.page(selection)
		page.Error = fmt.Sprintf("Pipeline failed: %v", err)
		s.render(w, http.StatusInternalServerError, page)
		return
	}
	assets, err := report.Assets(res, s.bitDepth)
	if err != nil {
		page := s.page(selection)
		page.Error = fmt.Sprintf("Rendering failed: %v", err)
		s.render(w, http.StatusInternalServerError, page)
		return
	}
	s.log("pipeline run for order %s took %v", fdm.FormatOrder(selection), time.Since(start))

	s.mu.Lock()
	s.order = selection
	s.view = report.NewView(res, func(name string) string { return filesPath + name })
	s.assets = assets
	s.runAt = time.Now()
	s.mu.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	s.mu.Lock()
	data, ok := s.assets[name]
	modTime := s.runAt
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if ct, ok := contentTypes[path.Ext(name)]; ok {
		w.Header().Set("Content-Type", ct)
	}
	http.ServeContent(w, r, name, modTime, bytes.NewReader(data))
}

var errBadSelection = errors.New("bad slot selection")

// parseSelection reads slot1..slot4 from the form. The returned selection
// is usable for re-rendering even when the error is non-nil.
func parseSelection(r *http.Request) ([]int, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadSelection, err)
	}
	selection := make([]int, fdm.NumChannels)
	var firstErr error
	for i := range selection {
		v, err := strconv.Atoi(r.PostForm.Get("slot" + strconv.Itoa(i+1)))
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%w: slot %d: %w", errBadSelection, i+1, err)
		}
		selection[i] = v
	}
	if firstErr != nil {
		return selection, firstErr
	}
	return selection, fdm.ValidateOrder(selection)
}
