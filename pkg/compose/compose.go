// Package compose builds the slot tree of a whole page.
//
// Each layout component on the page is resolved with [layout.Resolve]; the
// components placed into its enabled regions are composed recursively. A
// nested layout that does not set its own DynamicPlaceholderId takes the slot
// key of the region it sits in as discriminator, so instances of the same
// variant in different regions never share keys. Two such instances in the
// same region do; every key produced more than once is reported as a
// warning [Issue] naming both locations.
//
// Authoring mistakes never fail a page. Unknown variants, runaway nesting
// and content placed into slots that no enabled region exposes are recorded
// as [Issue] values on the [Document] and on the affected [Node].
package compose

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/slotframe/pkg/core/layout"
	"github.com/matzehuels/slotframe/pkg/errors"
	"github.com/matzehuels/slotframe/pkg/observability"
	"github.com/matzehuels/slotframe/pkg/page"
	"github.com/matzehuels/slotframe/pkg/params"
)

const (
	// DefaultMaxDepth bounds layout nesting.
	DefaultMaxDepth = 16

	// DefaultConcurrency bounds parallel composition of sibling slots per layout.
	DefaultConcurrency = 8
)

// Options configures composition.
type Options struct {
	MaxDepth    int
	Concurrency int
}

func (o *Options) setDefaults() {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
}

// Level classifies an issue.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Issue is an authoring problem found while composing.
type Issue struct {
	// Path locates the component, e.g. "main[0]/container-fifty-left-main[1]".
	Path      string      `json:"path"`
	Component string      `json:"component"`
	Level     Level       `json:"level"`
	Code      errors.Code `json:"code,omitempty"`
	Message   string      `json:"message"`
}

// Document is a composed page.
type Document struct {
	Page         string        `json:"page"`
	Title        string        `json:"title,omitempty"`
	Placeholders []Placeholder `json:"placeholders"`
	Issues       []Issue       `json:"issues,omitempty"`
}

// Placeholder is a root placeholder of the page.
type Placeholder struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
}

// Node is one composed component. Layout nodes carry the resolved tree and
// one slot per enabled region; content nodes carry only their name and
// parameters.
type Node struct {
	Component string            `json:"component"`
	Variant   string            `json:"variant,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	Tree      *layout.Tree      `json:"tree,omitempty"`
	Slots     []Slot            `json:"slots,omitempty"`
	Issue     *Issue            `json:"issue,omitempty"`
}

// IsLayout reports whether the node was resolved as a layout.
func (n Node) IsLayout() bool { return n.Tree != nil }

// Slot is an enabled region and the components placed into it.
type Slot struct {
	Region   layout.Region `json:"region"`
	Children []Node        `json:"children,omitempty"`
}

// Walk calls fn for every node of the document in depth-first order.
func (d *Document) Walk(fn func(path string, n Node)) {
	for _, ph := range d.Placeholders {
		walk(ph.Name, ph.Nodes, fn)
	}
}

func walk(parent string, nodes []Node, fn func(string, Node)) {
	for i, n := range nodes {
		path := indexPath(parent, i)
		fn(path, n)
		for _, s := range n.Slots {
			walk(path+"/"+s.Region.SlotKey, s.Children, fn)
		}
	}
}

// Layouts returns the number of layout nodes in the document.
func (d *Document) Layouts() int {
	count := 0
	d.Walk(func(_ string, n Node) {
		if n.IsLayout() {
			count++
		}
	})
	return count
}

// Compose resolves every layout on p. It returns an error only when p is
// structurally invalid or ctx is cancelled.
func Compose(ctx context.Context, p *page.Page, opts Options) (doc *Document, err error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidPage, "page is nil")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	opts.setDefaults()

	hooks := observability.Compose()
	hooks.OnComposeStart(ctx, p.Name)
	start := time.Now()
	defer func() {
		layouts, issues := 0, 0
		if doc != nil {
			layouts, issues = doc.Layouts(), len(doc.Issues)
		}
		hooks.OnComposeComplete(ctx, p.Name, layouts, issues, time.Since(start), err)
	}()

	c := &composer{opts: opts, hooks: hooks}
	names := p.PlaceholderNames()
	placeholders := make([]Placeholder, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, name := range names {
		g.Go(func() error {
			nodes, err := c.nodes(gctx, p.Placeholders[name], name, "", 1)
			if err != nil {
				return err
			}
			placeholders[i] = Placeholder{Name: name, Nodes: nodes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc = &Document{
		Page:         p.Name,
		Title:        p.Title,
		Placeholders: placeholders,
	}
	c.checkCollisions(doc)
	doc.Issues = c.sortedIssues()
	return doc, nil
}

type composer struct {
	opts  Options
	hooks observability.ComposeHooks

	mu     sync.Mutex
	issues []Issue
}

func (c *composer) report(is Issue) *Issue {
	c.mu.Lock()
	c.issues = append(c.issues, is)
	c.mu.Unlock()
	return &is
}

func (c *composer) sortedIssues() []Issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := slices.Clone(c.issues)
	slices.SortStableFunc(out, func(a, b Issue) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return out
}

// nodes composes the components of one placeholder. parentSlot is the slot
// key of the enclosing region, "" at the page root.
func (c *composer) nodes(ctx context.Context, comps []page.Component, path, parentSlot string, depth int) ([]Node, error) {
	if len(comps) == 0 {
		return nil, nil
	}
	out := make([]Node, len(comps))
	for i, comp := range comps {
		n, err := c.node(ctx, comp, indexPath(path, i), parentSlot, depth)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func (c *composer) node(ctx context.Context, comp page.Component, path, parentSlot string, depth int) (Node, error) {
	if err := ctx.Err(); err != nil {
		return Node{}, err
	}

	n := Node{Component: comp.Name, Params: comp.Params}
	if !comp.IsLayout() {
		if len(comp.Placeholders) > 0 {
			n.Issue = c.report(Issue{
				Path:      path,
				Component: comp.Name,
				Level:     LevelWarning,
				Message:   "content component has nested placeholders; they are not rendered",
			})
		}
		return n, nil
	}

	if depth > c.opts.MaxDepth {
		n.Issue = c.report(Issue{
			Path:      path,
			Component: comp.Name,
			Level:     LevelError,
			Message:   fmt.Sprintf("layout nesting deeper than %d levels", c.opts.MaxDepth),
		})
		return n, nil
	}

	n.Variant = comp.VariantID()
	req, err := params.Request(n.Variant, comp.Params)
	if err == nil {
		if _, own := comp.Params[params.KeyDiscriminator]; !own && parentSlot != "" {
			req.Discriminator = parentSlot
		}
		var tree layout.Tree
		tree, err = layout.Resolve(req)
		if err == nil {
			n.Tree = &tree
		}
	}
	if err != nil {
		c.hooks.OnResolve(ctx, n.Variant, 0, err)
		n.Issue = c.report(Issue{
			Path:      path,
			Component: comp.Name,
			Level:     LevelError,
			Code:      errors.GetCode(err),
			Message:   errors.UserMessage(err),
		})
		return n, nil
	}
	c.hooks.OnResolve(ctx, n.Variant, len(n.Tree.Regions), nil)

	c.checkOrphans(comp, n.Tree, path)
	if len(n.Tree.Regions) == 0 {
		return n, nil
	}

	n.Slots = make([]Slot, len(n.Tree.Regions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i, r := range n.Tree.Regions {
		g.Go(func() error {
			children, err := c.nodes(gctx, comp.Placeholders[r.SlotKey], path+"/"+r.SlotKey, r.SlotKey, depth+1)
			if err != nil {
				return err
			}
			n.Slots[i] = Slot{Region: r, Children: children}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Node{}, err
	}
	return n, nil
}

// checkOrphans reports placeholders of comp that match no enabled region.
// Their content is dropped, which is how disabled regions behave.
func (c *composer) checkOrphans(comp page.Component, tree *layout.Tree, path string) {
	keys := tree.SlotKeys()
	for _, name := range comp.SlotNames() {
		if slices.Contains(keys, name) || len(comp.Placeholders[name]) == 0 {
			continue
		}
		c.report(Issue{
			Path:      path,
			Component: comp.Name,
			Level:     LevelWarning,
			Message:   fmt.Sprintf("placeholder %q matches no enabled region; %d component(s) not rendered", name, len(comp.Placeholders[name])),
		})
	}
}

// checkCollisions reports slot keys produced by more than one layout.
func (c *composer) checkCollisions(d *Document) {
	owner := make(map[string]string)
	d.Walk(func(path string, n Node) {
		if !n.IsLayout() {
			return
		}
		for _, key := range n.Tree.SlotKeys() {
			prev, dup := owner[key]
			if !dup {
				owner[key] = path
				continue
			}
			c.report(Issue{
				Path:      path,
				Component: n.Component,
				Level:     LevelWarning,
				Message:   fmt.Sprintf("slot key %q is also produced at %s; set DynamicPlaceholderId to tell them apart", key, prev),
			})
		}
	})
}

func indexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
