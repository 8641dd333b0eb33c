// Package storage writes linkwalk's artifacts to the local filesystem.
//
// Two kinds of files are produced, both in the configured output directory:
//
//   - full-page saves, named page-<hostname>.html
//   - image downloads, named after the last segment of the image URL path, or
//     <md5-hex-of-url><ext> when that segment exceeds MaxFileNameLength
//
// File names are derived deterministically from URLs: the same URL always
// yields the same name. Existing files are overwritten without warning.
package storage
