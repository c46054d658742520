// Package services provides cross-cutting plumbing shared by the pipeline
// components: the sentinel error taxonomy with Wrap, structured context
// annotations consumed by logging, and error source-location capture used
// by the record error channel.
package services
