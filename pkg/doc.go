// Package pkg provides the libraries behind slotframe, a layout engine that
// turns layout containers authored in a CMS page into resolved slot trees.
//
// # Overview
//
// A page author places layout components ("ContainerFiftyFifty",
// "ColumnSplitter") into placeholders and fills their regions with content.
// slotframe resolves every layout instance into a tree of enabled regions,
// each with a stable slot key, a size and style tokens, so a host renderer
// can emit markup and route child components into the right slot.
//
// The data flow:
//
//	page file (TOML / YAML / JSON) or page store
//	         ↓
//	    [page] package (decode + validate)
//	         ↓
//	    [params] package (authoring parameters → layout requests)
//	         ↓
//	    [core/layout] package (variant catalog + resolver)
//	         ↓
//	    [compose] package (nested resolution + authoring issues)
//	         ↓
//	    [render] package (HTML, JSON, DOT, SVG, PNG, PDF)
//
// # Quick Start
//
// Resolve one layout instance:
//
//	req, _ := params.Request("fifty-fifty", map[string]string{
//	    "DynamicPlaceholderId": "main",
//	    "styles":               "bg-light",
//	})
//	tree, _ := layout.Resolve(req)
//	fmt.Println(tree.SlotKeys()) // [container-fifty-left-main container-fifty-right-main]
//
// Compose and render a whole page:
//
//	p, _ := page.Import("pages/home.toml")
//	doc, _ := compose.Compose(ctx, p, compose.Options{})
//	html, _ := render.Render(ctx, doc, render.FormatHTML, render.Options{})
//
// # Main Packages
//
// ## Core
//
// [core/variant] - The closed catalog of layout variants: region counts,
// ratios, labels, default tokens and the splitter rules.
//
// [core/slot], [core/mask], [core/style], [core/margin] - Slot key
// generation, enabled-region masks, style token composition and margin
// policy.
//
// [core/layout] - Resolve turns a layout request into a Tree. It is pure and
// safe for concurrent use.
//
// ## Pages
//
// [page] - Page definitions and their TOML, YAML and JSON encodings.
//
// [params] - Maps CMS authoring parameters onto layout requests.
//
// [compose] - Resolves every layout on a page, nesting included, and
// collects authoring issues instead of failing.
//
// ## Output and Infrastructure
//
// [render] - Output sinks. DOT diagrams are laid out with Graphviz; PNG and
// PDF are converted from SVG.
//
// [pipeline] - Compose and render with document and artifact caching. Used
// by the CLI and the server.
//
// [cache] - Null, file and Redis caches with content-addressed keys.
//
// [store] - Page stores backed by a directory or MongoDB.
//
// [server] - HTTP API with Prometheus metrics.
//
// [observability] - Hook registry for compose, cache and HTTP events;
// [observability/prom] implements it with Prometheus.
//
// # Testing
//
//	go test ./...                       # unit tests and examples
//	go test -tags integration ./pkg/... # Redis and MongoDB backends
//
// [core/variant]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/core/variant
// [core/slot]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/core/slot
// [core/mask]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/core/mask
// [core/style]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/core/style
// [core/margin]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/core/margin
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/core/layout
// [page]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/page
// [params]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/params
// [compose]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/compose
// [render]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/slotframe/pkg/observability/prom
package pkg
