// Package render turns a composed page into output artifacts.
//
// # Formats
//
//   - json: the composed [compose.Document], indented
//   - html: a markup skeleton of containers and slots (see [HTML])
//   - dot:  a Graphviz diagram of the slot tree (see [DOT])
//   - svg:  the diagram rendered in-process with go-graphviz
//   - png, pdf: the SVG converted with rsvg-convert
//
// The HTML skeleton is what a host page would emit around its content:
//
//	<div id="hero" class="mt-4 mb-4 container-fifty-fifty flex ... bg-dark" data-variant="fifty-fifty">
//	  <div class="container-fifty-left w-full md:w-1/2 px-3" data-slot="container-fifty-left-main" data-size="1/2">
//	    <div data-component="RichText"></div>
//	  </div>
//	  ...
//	</div>
//
// Authoring issues attached to a node render as an alert box in HTML and as
// a red node in the diagram.
//
// # Dependencies
//
// [golang.org/x/net/html] builds and serializes the markup, and
// [github.com/goccy/go-graphviz] renders diagrams. PNG and PDF conversion
// requires librsvg (rsvg-convert).
package render
