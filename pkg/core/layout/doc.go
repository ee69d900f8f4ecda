// Package layout resolves layout requests into layout trees.
//
// # Overview
//
// [Resolve] is the single entry point of the slot-composition core. It takes a
// [Request] (variant id plus authoring parameters already normalized by
// [github.com/matzehuels/slotframe/pkg/params]) and returns a [Tree]: the outer
// container's class tokens, id and margins, and one [Region] per enabled
// region carrying its slot key, size and class tokens.
//
//	tree, err := layout.Resolve(layout.Request{
//	    Variant:       variant.FiftyFifty,
//	    Discriminator: "main",
//	})
//	// tree.Regions[0].SlotKey == "container-fifty-left-main"
//	// tree.Regions[1].SlotKey == "container-fifty-right-main"
//
// # Steps
//
// Resolution runs the core packages in a fixed order:
//
//  1. [variant.Lookup] (the only step that can fail)
//  2. [mask.Parse] against the effective region count
//  3. per enabled region: [slot.Key], [style.Region] and the region size
//  4. [style.Container] and [margin.Resolve]
//
// # Guarantees
//
// Resolve is pure: it performs no I/O, keeps no state and caches nothing, so
// identical requests yield value-equal trees and concurrent calls need no
// locking. Regions are emitted in ascending index order and disabled regions
// are omitted entirely.
//
// # Nesting
//
// The resolver knows nothing about nesting. A host that finds another layout
// placed in a region resolves it with the region's slot key as the nested
// request's discriminator; see [github.com/matzehuels/slotframe/pkg/compose].
//
// [variant.Lookup]: github.com/matzehuels/slotframe/pkg/core/variant.Lookup
// [mask.Parse]: github.com/matzehuels/slotframe/pkg/core/mask.Parse
// [slot.Key]: github.com/matzehuels/slotframe/pkg/core/slot.Key
// [style.Region]: github.com/matzehuels/slotframe/pkg/core/style.Region
// [style.Container]: github.com/matzehuels/slotframe/pkg/core/style.Container
// [margin.Resolve]: github.com/matzehuels/slotframe/pkg/core/margin.Resolve
package layout
