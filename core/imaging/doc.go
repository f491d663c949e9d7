// Package imaging handles icon export: encoding raw RGBA pixel regions to
// PNG, and the thread-affinity boundary that encoding must respect.
//
// The host engine only allows texture reads from its rendering thread. The
// Executor capability makes that boundary explicit: the catalog store submits
// each encode through an Executor instead of calling the encoder inline, so
// its own logic stays host-agnostic and testable. RenderExecutor pins all
// work to one goroutine; DirectExecutor runs inline for tests and one-shot
// CLI runs.
package imaging
