// Package pipeline runs batch jobs: it filters an ordered file list to
// supported raster formats, fits each file into the job's size band, and
// writes the result under the output directory with its original name.
//
// Files are processed strictly in input order on the calling goroutine.
// Progress, per-file and completion events are sent on the caller's
// channel in the same order. Cancellation is observed between files only;
// an in-flight search always runs to completion.
//
// A file that fails to decode is skipped and reported in
// BatchResult.Skipped. Encode and write failures produce an outcome with
// Achieved=false and Bytes=0. Nothing stops the batch except cancellation.
package pipeline
