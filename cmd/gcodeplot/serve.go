package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"log"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/mux"
	"github.com/kpango/glg"
	"github.com/mastercactapus/gcodeplot/config"
	"github.com/mastercactapus/gcodeplot/coord"
	"github.com/mastercactapus/gcodeplot/render"
	"github.com/pkg/errors"
)

type server struct {
	http.Handler
	cfg config.Config
	sse *sse.Server

	mx  sync.RWMutex
	doc *document
}

func newServer(doc *document, cfg config.Config) *server {
	r := mux.NewRouter()
	s := &server{
		Handler: r,
		cfg:     cfg,
		doc:     doc,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(io.Discard, "", 0),
		}),
	}

	r.HandleFunc("/api/program", s.program).Methods("GET")
	r.HandleFunc("/api/paths", s.paths).Methods("GET")
	r.HandleFunc("/api/source", s.source).Methods("GET")
	r.HandleFunc("/api/transform", s.transformFile).Methods("POST")
	r.HandleFunc("/api/append", s.appendFile).Methods("POST")
	r.HandleFunc("/preview.png", s.preview).Methods("GET")
	r.PathPrefix("/events/").Handler(s.sse)

	return s
}

func (s *server) current() *document {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.doc
}

// reload re-reads the file. On failure the previous program is kept.
func (s *server) reload() error {
	old := s.current()
	doc, err := readDocument(old.path, s.cfg.TraceOptions())
	if err != nil {
		s.sse.SendMessage("/events/error", sse.SimpleMessage(err.Error()))
		return err
	}
	doc.logWarnings()

	s.mx.Lock()
	s.doc = doc
	s.mx.Unlock()

	s.sse.SendMessage("/events/reload", sse.SimpleMessage(strconv.Itoa(len(doc.program))))
	return nil
}

// watch reloads the document whenever its file changes, one reload at a
// time, until the returned watcher is closed.
func (s *server) watch() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "watch")
	}
	path := filepath.Clean(s.current().path)
	// editors often replace the file, so watch the directory
	err = w.Add(filepath.Dir(path))
	if err != nil {
		w.Close()
		return nil, errors.Wrap(err, "watch")
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				glg.Debugf("reload: %s", ev)
				if err := s.reload(); err != nil {
					glg.Errorf("reload: %v", err)
					continue
				}
				glg.Infof("reloaded %s", path)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				glg.Errorf("watch: %v", err)
			}
		}
	}()
	return w, nil
}

type point [2]float32

func toPoint(p coord.Point) point { return point{p.X, p.Y} }

type statementJSON struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

type programJSON struct {
	Path       string          `json:"path"`
	Statements []statementJSON `json:"statements"`
	End        point           `json:"end"`
	Warnings   []string        `json:"warnings"`
}

type pathJSON struct {
	Drawn  bool    `json:"drawn"`
	Line   int     `json:"line"`
	Points []point `json:"points"`
}

type pathsJSON struct {
	Paths []pathJSON `json:"paths"`
	Min   point      `json:"min"`
	Max   point      `json:"max"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		glg.Errorf("encode: %v", err)
	}
}

func (s *server) program(w http.ResponseWriter, req *http.Request) {
	doc := s.current()
	enc := s.cfg.Encoder()
	res := programJSON{
		Path:       doc.path,
		Statements: make([]statementJSON, len(doc.program)),
		End:        toPoint(doc.drawing.End),
		Warnings:   []string{},
	}
	for i, st := range doc.program {
		res.Statements[i] = statementJSON{Line: st.Line, Text: enc.Format(st.Command)}
	}
	for _, warn := range doc.drawing.Warnings {
		res.Warnings = append(res.Warnings, warn.Error())
	}
	writeJSON(w, res)
}

func (s *server) paths(w http.ResponseWriter, req *http.Request) {
	d := s.current().drawing
	res := pathsJSON{
		Paths: make([]pathJSON, len(d.Paths)),
		Min:   toPoint(d.Bounds.Min),
		Max:   toPoint(d.Bounds.Max),
	}
	for i, p := range d.Paths {
		pts := make([]point, len(p.Points))
		for j, pt := range p.Points {
			pts[j] = toPoint(pt)
		}
		res.Paths[i] = pathJSON{Drawn: p.Drawn, Line: p.Line, Points: pts}
	}
	writeJSON(w, res)
}

func (s *server) source(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, s.cfg.Encoder().Serialize(s.current().program))
}

// formFloat parses an optional form value.
func formFloat(req *http.Request, name string, def float32) (float32, error) {
	str := req.FormValue(name)
	if str == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(str, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "parameter %s", name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("parameter %s: %q is not a finite number", name, str)
	}
	return float32(v), nil
}

func (s *server) transformFile(w http.ResponseWriter, req *http.Request) {
	var opts transformOptions
	var err error
	parse := func(name string, def float32) float32 {
		if err != nil {
			return 0
		}
		var v float32
		v, err = formFloat(req, name, def)
		return v
	}
	opts.translate.X = parse("x", 0)
	opts.translate.Y = parse("y", 0)
	opts.scale = parse("scale", 1)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name, p, err := opts.apply(s.current())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err = writeProgram(name, s.cfg.Encoder(), p)
	if err != nil {
		glg.Errorf("transform: %+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"file": name})
}

func (s *server) appendFile(w http.ResponseWriter, req *http.Request) {
	data, err := io.ReadAll(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name, text, err := appendCommands(s.current(), string(data), s.cfg.Encoder(), s.cfg.TraceOptions())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err = writeFile(name, text)
	if err != nil {
		glg.Errorf("append: %+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"file": name})
}

func (s *server) preview(w http.ResponseWriter, req *http.Request) {
	opts := s.cfg.RenderOptions()
	var err error
	if str := req.FormValue("debug"); str != "" {
		opts.Debug, err = strconv.Atoi(str)
	}
	if err == nil {
		opts.Grid, err = formFloat(req, "grid", opts.Grid)
	}
	if err == nil {
		opts.Scale, err = formFloat(req, "scale", opts.Scale)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	err = render.PNG(&buf, s.current().drawing, opts)
	if errors.Cause(err) == render.ErrTooLarge {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		glg.Errorf("preview: %+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func serveCmd(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Serve.Addr, "Address to bind the server to.")
	hot := fs.Bool("hot", cfg.Serve.Hot, "Reload FILE when it changes.")
	fs.Parse(args)
	path, err := fileArg(fs)
	if err != nil {
		return err
	}

	doc, err := readDocument(path, cfg.TraceOptions())
	if err != nil {
		return err
	}
	doc.logWarnings()

	s := newServer(doc, cfg)
	defer s.sse.Shutdown()
	if *hot {
		w, err := s.watch()
		if err != nil {
			return err
		}
		defer w.Close()
	}

	glg.Infof("listening on %s", *addr)
	return http.ListenAndServe(*addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		glg.Debugf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		s.ServeHTTP(w, req)
	}))
}
