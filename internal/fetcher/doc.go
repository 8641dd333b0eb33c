// Package fetcher retrieves remote documents and images over HTTPS.
//
// A Fetcher buffers a whole page body in memory before returning it, so the
// caller can save and parse the page only once it has been fully received.
// A Downloader streams an image straight to a file and removes the file
// again when the transfer fails halfway.
//
// Both refuse plain http except for .onion hosts reached through Tor, whose
// transport is encrypted end to end. Failures of the network round trip are
// reported as *TransportError.
package fetcher
