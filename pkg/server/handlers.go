package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/slotframe/pkg/buildinfo"
	"github.com/matzehuels/slotframe/pkg/core/layout"
	"github.com/matzehuels/slotframe/pkg/core/variant"
	"github.com/matzehuels/slotframe/pkg/errors"
	"github.com/matzehuels/slotframe/pkg/observability"
	"github.com/matzehuels/slotframe/pkg/page"
	"github.com/matzehuels/slotframe/pkg/params"
	"github.com/matzehuels/slotframe/pkg/pipeline"
	"github.com/matzehuels/slotframe/pkg/render"
)

// Response headers describing a render.
const (
	HeaderIssues   = "X-Slotframe-Issues"
	HeaderCache    = "X-Slotframe-Cache"
	HeaderPageHash = "X-Slotframe-Page-Hash"
)

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "err", err)
		if code == errors.ErrCodeInternal {
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

type variantInfo struct {
	ID          string   `json:"id"`
	Component   string   `json:"component"`
	Description string   `json:"description"`
	Regions     int      `json:"regions"`
	Ratios      []string `json:"ratios,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Wrap        string   `json:"wrap"`
	Split       string   `json:"split,omitempty"`
}

func describe(v variant.Variant) variantInfo {
	info := variantInfo{
		ID:          v.ID,
		Component:   v.ComponentName,
		Description: v.Description,
		Regions:     v.RegionCount,
		Labels:      v.Labels,
		Wrap:        v.Wrap.String(),
	}
	for _, r := range v.Ratios {
		info.Ratios = append(info.Ratios, r.String())
	}
	if v.Dynamic() {
		info.Split = v.Split.String()
	}
	return info
}

func (s *Server) handleVariants(w http.ResponseWriter, _ *http.Request) {
	all := variant.All()
	out := make([]variantInfo, len(all))
	for i, v := range all {
		out[i] = describe(v)
	}
	writeJSON(w, http.StatusOK, out)
}

// resolveRequest names a layout either by catalog id or by CMS rendering
// name and carries its authoring parameters.
type resolveRequest struct {
	Variant   string            `json:"variant"`
	Component string            `json:"component"`
	Params    map[string]string `json:"params"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var body resolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode resolve request"))
		return
	}

	var req layout.Request
	switch {
	case body.Component != "":
		var ok bool
		if req, ok = params.ForComponent(body.Component, body.Params); !ok {
			s.writeError(w, r, errors.New(errors.ErrCodeUnknownVariant, "component %q is not a layout container", body.Component))
			return
		}
	case body.Variant != "":
		var err error
		if req, err = params.Request(body.Variant, body.Params); err != nil {
			s.writeError(w, r, err)
			return
		}
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "variant or component is required"))
		return
	}

	tree, err := layout.Resolve(req)
	observability.Compose().OnResolve(r.Context(), req.Variant, len(tree.Regions), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// readPage decodes and validates a page from the request body. The format
// comes from the Content-Type header and defaults to JSON. A page without a
// name takes fallback.
func (s *Server) readPage(w http.ResponseWriter, r *http.Request, fallback string) (*page.Page, error) {
	f := page.FormatJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type %q", ct)
		}
		if f, err = formatFromMediaType(mt); err != nil {
			return nil, err
		}
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	p, err := page.Decode(data, f)
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		p.Name = fallback
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func formatFromMediaType(mt string) (page.Format, error) {
	switch mt {
	case "application/json":
		return page.FormatJSON, nil
	case "application/toml":
		return page.FormatTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return page.FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	p, err := s.readPage(w, r, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, p, r.URL.Query().Get("format"))
}

// render runs the pipeline for one format and writes the artifact.
func (s *Server) render(w http.ResponseWriter, r *http.Request, p *page.Page, format string) {
	if format == "" {
		format = pipeline.DefaultFormat
	}
	q := r.URL.Query()
	opts := pipeline.Options{
		Page:       p,
		Formats:    []string{format},
		Standalone: q.Get("standalone") == "1" || q.Get("standalone") == "true",
		Refresh:    q.Get("refresh") == "1" || q.Get("refresh") == "true",
		Logger:     loggerFromContext(r.Context()),
	}
	if d := q.Get("max_depth"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 1 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "max_depth must be a positive integer"))
			return
		}
		opts.MaxDepth = n
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentTypes[format])
	w.Header().Set(HeaderIssues, strconv.Itoa(res.Stats.Issues))
	w.Header().Set(HeaderPageHash, res.PageHash)
	cacheState := "miss"
	if res.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set(HeaderCache, cacheState)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"pages": names})
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.store.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	if format := q.Get("render"); format != "" {
		s.render(w, r, p, format)
		return
	}

	f := page.FormatJSON
	if v := q.Get("format"); v != "" {
		if f, err = page.ParseFormat(v); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	data, err := page.Marshal(p, f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pageContentType(f))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func pageContentType(f page.Format) string {
	switch f {
	case page.FormatTOML:
		return "application/toml"
	case page.FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

func (s *Server) handlePutPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidatePageName(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.readPage(w, r, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if p.Name != name {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "page name %q does not match path %q", p.Name, name))
		return
	}
	if err := s.store.Put(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	loggerFromContext(r.Context()).Info("stored page", "page", name)
	writeJSON(w, http.StatusOK, map[string]string{"page": name, "hash": page.Hash(p)})
}
