// Package server is the HTTP boundary: feed endpoints and the small
// subscription management UI.
package server

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eksi-rss/internal/feed"
	"eksi-rss/internal/fetch"
	"eksi-rss/internal/model"
	"eksi-rss/internal/subs"
)

const rssContentType = "application/rss+xml; charset=utf-8"

type Server struct {
	Store       *subs.Store
	Coordinator *fetch.Coordinator
	Assembler   *feed.Assembler
	MergedLimit int
}

func New(store *subs.Store, co *fetch.Coordinator, as *feed.Assembler, mergedLimit int) *Server {
	if mergedLimit <= 0 {
		mergedLimit = 10
	}
	return &Server{Store: store, Coordinator: co, Assembler: as, MergedLimit: mergedLimit}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ekle", s.handleAdd)
	mux.HandleFunc("/sil/", s.handleRemove)
	mux.HandleFunc("/feed/baslik/", s.handleTopicFeed)
	mux.HandleFunc("/feed/ara/", s.handleSearchFeed)
	mux.HandleFunc("/hepsi.xml", s.handleMergedFeed)
	return mux
}

// handleTopicFeed serves /feed/baslik/{topic_id}.xml. Unknown ids are the one
// user-visible failure: everything past this point degrades to a valid feed.
func (s *Server) handleTopicFeed(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/feed/baslik/"), ".xml")
	sub, ok := s.Store.FindTopic(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	entries, err := s.Coordinator.Resolve(r.Context(), sub)
	if err != nil {
		slog.Warn("server: topic feed degraded", "key", sub.Key(), "error", err)
	}
	s.writeFeed(w, s.Assembler.Assemble(sub, entries))
}

// handleSearchFeed serves /feed/ara/{term}.xml for ad-hoc search terms.
func (s *Server) handleSearchFeed(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/feed/ara/"), ".xml")
	term, err := url.PathUnescape(raw)
	if err != nil || strings.TrimSpace(term) == "" {
		http.NotFound(w, r)
		return
	}
	sub := model.Subscription{Kind: model.KindSearchTerm, Value: term, AddedAt: time.Now()}
	entries, rerr := s.Coordinator.Resolve(r.Context(), sub)
	if rerr != nil {
		slog.Warn("server: search feed degraded", "key", sub.Key(), "error", rerr)
	}
	s.writeFeed(w, s.Assembler.Assemble(sub, entries))
}

// handleMergedFeed serves /hepsi.xml, the union of all tracked subscriptions.
func (s *Server) handleMergedFeed(w http.ResponseWriter, r *http.Request) {
	list := s.Store.List()
	if len(list) > s.MergedLimit {
		list = list[:s.MergedLimit]
	}
	results := s.Coordinator.ResolveAll(r.Context(), list)
	sources := make([]feed.Source, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			slog.Warn("server: merged feed source degraded", "key", res.Sub.Key(), "error", res.Err)
		}
		sources = append(sources, feed.Source{Sub: res.Sub, Entries: res.Entries})
	}
	s.writeFeed(w, s.Assembler.AssembleMerged(sources))
}

func (s *Server) writeFeed(w http.ResponseWriter, f interface{ ToRss() (string, error) }) {
	rss, err := f.ToRss()
	if err != nil {
		slog.Error("server: rss serialization failed", "error", err)
		http.Error(w, "feed generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", rssContentType)
	w.Write([]byte(rss))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct {
		Subscriptions []model.Subscription
	}{Subscriptions: s.Store.List()}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		slog.Error("server: index render failed", "error", err)
	}
}

// handleAdd registers a new subscription from a free-form target, fetching
// the topic page once to learn its title and final URL.
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	target := strings.TrimSpace(r.FormValue("topic"))
	if target == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sub, err := s.Coordinator.Discover(r.Context(), target)
	if err != nil {
		slog.Warn("server: add failed", "target", target, "error", err)
		s.renderError(w, "baslik bulunamadi: "+target)
		return
	}
	if _, err := s.Store.Add(sub); err != nil {
		slog.Error("server: subscription save failed", "key", sub.Key(), "error", err)
		s.renderError(w, "abonelik kaydedilemedi")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/sil/"))
	if err != nil || key == "" {
		http.NotFound(w, r)
		return
	}
	if _, err := s.Store.Remove(key); err != nil {
		slog.Error("server: subscription remove failed", "key", key, "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) renderError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	errorTmpl.Execute(w, struct{ Message string }{Message: msg})
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>eksi rss</title></head>
<body>
<h1>eksi rss</h1>
<form action="/ekle" method="post">
  <input type="text" name="topic" placeholder="baslik URL, id veya arama terimi" required>
  <button type="submit">ekle</button>
</form>
<p>birlesik besleme: <a href="/hepsi.xml">/hepsi.xml</a></p>
<ul>
{{range .Subscriptions}}
  <li>
    {{.DisplayTitle}}
    {{if .TopicID}}<a href="/feed/baslik/{{.TopicID}}.xml">rss</a>{{end}}
    <a href="/sil/{{.Key}}">sil</a>
  </li>
{{else}}
  <li>henuz abonelik yok</li>
{{end}}
</ul>
</body>
</html>
`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>hata</title></head>
<body><h1>hata</h1><p>{{.Message}}</p><p><a href="/">geri don</a></p></body>
</html>
`))
