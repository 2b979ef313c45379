// Package site runs a full build: it copies static assets, loads and sorts the
// posts, renders every page and the feed, and writes the hosting marker files.
//
// A build is a fixed sequence of named stages executed on one goroutine. The
// first failing stage aborts the build; outputs written by earlier stages are
// left in place. Each run rewrites every artifact, so two builds with the
// same inputs and clock produce identical files.
package site
