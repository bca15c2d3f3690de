// Package rdf is an RDF triple store with explicit object lifetimes.
//
// Every object is created against a World and owns exactly one engine
// object, which it frees once on Close. Ownership moves with Move and
// with the constructors that consume their inputs:
//   - NewStatementFromNodes takes the subject, predicate and object nodes.
//   - Statement.SetSubject and friends take the new part.
//
// Accessors such as Statement.Subject, Stream.Current and Iterator.Current
// hand out borrowed views. A view is valid until its owner changes and
// closing it frees nothing; use Clone, Stream.Object or Stream.Copy to keep
// a statement past the next step.
//
// Constructors return an *AllocError (errors.Is(err, ErrAllocation)) when
// the engine produces no object. Store, parse and serialize operations
// report failure as a boolean and record the cause on World.LastError.
//
// Storage backends:
//   - memory: in-process, insertion ordered; contexts='yes' enables named graphs.
//   - hashes: memory with subject/predicate/object indexes; requires hash-type='memory'.
//   - sqlite: a SQLite database, file='path' or dir='d' with the storage name;
//     always supports contexts.
//
// Supported formats: Turtle, N-Triples, N-Quads, JSON-LD.
//
// Example:
//
//	world, err := rdf.NewWorld()
//	if err != nil {
//	    // handle error
//	}
//	defer world.Close()
//
//	storage, _ := rdf.NewStorage(world, rdf.BackendMemory, "", "")
//	defer storage.Close()
//	model, _ := rdf.NewModel(world, storage, "")
//	defer model.Close()
//
//	if err := rdf.ParseRDFFromString(input, "", world, model, "turtle"); err != nil {
//	    // handle error
//	}
//	stream, _ := model.AsStream()
//	defer stream.Close()
//	for st := range stream.All() {
//	    fmt.Println(st.Subject(), st.Predicate(), st.Object())
//	}
package rdf
