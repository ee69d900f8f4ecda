package pipeline

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slotframe/pkg/cache"
	"github.com/matzehuels/slotframe/pkg/compose"
	"github.com/matzehuels/slotframe/pkg/errors"
	"github.com/matzehuels/slotframe/pkg/page"
)

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func testPage() *page.Page {
	return &page.Page{
		Name: "home",
		Placeholders: map[string][]page.Component{
			"main": {{
				Name:   "ContainerFiftyFifty",
				Params: map[string]string{"DynamicPlaceholderId": "main"},
				Placeholders: map[string][]page.Component{
					"container-fifty-left-main": {{Name: "RichText"}},
				},
			}},
		},
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Page: testPage()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.MaxDepth != compose.DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", opts.MaxDepth, compose.DefaultMaxDepth)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing page", Options{}, errors.ErrCodeInvalidInput},
		{"invalid page", Options{Page: &page.Page{Name: "a/b"}}, errors.ErrCodeInvalidPage},
		{"bad format", Options{Page: testPage(), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Standalone: true, Scale: 3}
	if got := opts.ArtifactKeyOpts("json"); got.Standalone || got.Scale != 0 {
		t.Errorf("json key opts = %+v, want format only", got)
	}
	if got := opts.ArtifactKeyOpts("html"); !got.Standalone {
		t.Errorf("html key opts = %+v, want standalone", got)
	}
	if got := opts.ArtifactKeyOpts("png"); got.Scale != 3 {
		t.Errorf("png key opts = %+v, want scale 3", got)
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	opts := Options{Page: testPage(), Formats: []string{"html", "json"}}
	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.ComposeHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if first.Stats.Layouts != 1 || first.Stats.Issues != 0 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if !strings.Contains(string(first.Artifacts["html"]), `data-slot="container-fifty-left-main"`) {
		t.Errorf("html artifact = %s", first.Artifacts["html"])
	}
	if c.sets != 3 {
		t.Errorf("cache writes = %d, want 3 (document + 2 artifacts)", c.sets)
	}

	second, err := r.Execute(ctx, Options{Page: testPage(), Formats: []string{"html", "json"}})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ComposeHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if second.DocumentHash != first.DocumentHash {
		t.Error("cached document hash differs from computed one")
	}
	if string(second.Artifacts["json"]) != string(first.Artifacts["json"]) {
		t.Error("cached artifact differs")
	}

	refreshed, err := r.Execute(ctx, Options{Page: testPage(), Formats: []string{"html"}, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.ComposeHit || refreshed.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", refreshed.CacheInfo)
	}
}

func TestRunnerPageChangeMissesCache(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)

	if _, err := r.Execute(ctx, Options{Page: testPage()}); err != nil {
		t.Fatal(err)
	}
	changed := testPage()
	changed.Placeholders["main"][0].Params["excludeTopMargin"] = "1"

	res, err := r.Execute(ctx, Options{Page: changed})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.ComposeHit {
		t.Error("changed page should not hit the document cache")
	}
	if !strings.Contains(string(res.Artifacts["html"]), `class="mt-0 mb-4`) {
		t.Errorf("html artifact not recomposed: %s", res.Artifacts["html"])
	}
}

func TestRunnerCompose(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	doc, hit, err := r.Compose(context.Background(), Options{Page: testPage()})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("NullCache should never hit")
	}
	if doc.Page != "home" || doc.Layouts() != 1 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestRunnerCachedDocumentMatchesFresh(t *testing.T) {
	p := &page.Page{
		Name: "widths",
		Placeholders: map[string][]page.Component{
			"main": {{
				Name: "ColumnSplitter",
				Params: map[string]string{
					"DynamicPlaceholderId": "cols",
					"ColumnWidth1":         "1/2",
					"ColumnWidth2":         "1/2",
					"ColumnWidth3":         "1/2",
					"EnabledPlaceholders":  "1,2,3",
				},
			}},
		},
	}
	r := NewRunner(newMemCache(), nil, nil)

	fresh, hit, err := r.Compose(context.Background(), Options{Page: p})
	if err != nil || hit {
		t.Fatalf("first Compose() hit=%v err=%v", hit, err)
	}
	cached, hit, err := r.Compose(context.Background(), Options{Page: p})
	if err != nil || !hit {
		t.Fatalf("second Compose() hit=%v err=%v", hit, err)
	}
	if !reflect.DeepEqual(cached, fresh) {
		t.Errorf("cached document differs from fresh one\n got %+v\nwant %+v", cached, fresh)
	}
	cached.Walk(func(path string, n compose.Node) {
		if !n.IsLayout() {
			return
		}
		for _, reg := range n.Tree.Regions {
			if reg.Size.IsFraction() {
				t.Errorf("%s region %d: authored width decoded as fraction", path, reg.Index)
			}
		}
	})
}

func TestRunnerExecuteInvalid(t *testing.T) {
	r := NewRunner(nil, cache.NewDefaultKeyer(), nil)
	_, err := r.Execute(context.Background(), Options{Page: testPage(), Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Execute() error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestRunnerUsesOptionsLogger(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(nil, nil, log.NewWithOptions(io.Discard, log.Options{}))

	opts := Options{Page: testPage(), Logger: log.NewWithOptions(&buf, log.Options{})}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(buf.String(), "composed page") {
		t.Errorf("run logger output = %q, want compose summary", buf.String())
	}
}
