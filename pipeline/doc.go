// Package pipeline keeps the set of live shader pipelines and rebuilds them
// when their sources may have changed.
//
// [Registry.ReloadAll] compiles every stage of every registered pipeline
// through a cache-aware compiler, so only stages whose source modification
// time moved are actually recompiled. Each pipeline then receives its full
// set of stage bytecode through [Pipeline.Rebuild].
package pipeline
