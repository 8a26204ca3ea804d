// Package filesystem implements the inbox directory contract on the local disk.
//
// Files dropped into the inbox directory are listed in name order, read whole,
// and moved into the done directory once ingested. Hidden files and
// directories are ignored. Watch reports inbox changes through fsnotify so
// the scheduler can run a cycle early.
package filesystem
