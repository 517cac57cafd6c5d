// Package lang resolves Rain documents.
//
// A document is free text made of block comments, '@' import statements and
// '#' bindings:
//
//	/* ignore-undefined-authoring-meta */
//	@ 0x1f...e4                   import a word set into the root
//	@ util 0x7a...0c 'max top     import a document as "util", renaming max
//	#limit 0x100                  constant binding
//	#fee ! must be rebound        elided binding
//	#main add('limit util.top)    expression binding
//
// [New] runs the full pipeline over the text:
//
//  1. Segmentation splits the text into comments, imports and bindings.
//     Claimed text is blanked so offsets keep pointing into the original.
//  2. Imports are tokenized, then their metadata is fetched from a
//     [meta.Store] and classified concurrently: deployer bytecode yields a
//     word set, caller meta yields context aliases, and an embedded document
//     is parsed recursively up to [DefaultMaxImportDepth] levels deep.
//  3. Each import's contribution has its directives (elide, rebind, rename)
//     applied and is merged into the namespace in source order.
//  4. Bindings are added to the root namespace and ordered by their quoted
//     references; bindings caught in a cycle are reported and left out.
//  5. A top-level document selects its single word set and passes every
//     expression binding to an [ExpressionParser].
//
// Diagnostics are [Problem] values recorded on the document, the import or
// the binding they concern; resolution always runs to completion.
package lang
