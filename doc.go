// Package skillkit provides a resolution and ranking engine for libraries of
// reusable skill documents.
//
// Skills are short knowledge documents with structured metadata (name,
// version, scope, priority) and a Markdown body that may be composed from
// other documents through inheritance (extends) and inclusion (includes).
// The engine answers two kinds of requests against an immutable library
// snapshot:
//
//   - Resolve: flatten one skill's inheritance and inclusion graph into a
//     single final text, applying any local override along the way.
//   - Rank: score every eligible skill against a request context and return
//     a deterministic shortlist of the best matches.
//
// # Skill Composition
//
// A skill may extend a single parent and include any number of other skills.
// Resolution is depth-first with an explicit visited set and a fixed depth
// ceiling, so cyclic or pathologically deep graphs always terminate. A bad
// reference never aborts resolution of the whole document: the failure is
// rendered as an inline marker in the output and recorded as a diagnostic,
// and only a failure on the top-level requested skill is returned as an
// error.
//
// # Snapshots
//
// All operations are pure functions of (snapshot, request). Snapshots are
// built once by a loader, never mutated, and swapped atomically, so any
// number of Resolve and Rank calls may run concurrently without locking.
//
// # Usage
//
//	snapshot, err := skillkit.NewSnapshot(definitions, overrides, snippets)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine, err := skillkit.New(skillkit.Options{
//	    Snapshot:   snapshot,
//	    Similarity: similarity.NewLexical(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resolved, err := engine.Resolve(ctx, "python-debugging", "^1.0.0")
package skillkit
