// Package database records visited pages and downloaded images in SQLite.
//
// The history lives in a single file, linkwalk.db, in the XDG data
// directory by default. modernc.org/sqlite is a pure Go driver, so the
// binary stays CGO-free.
package database
