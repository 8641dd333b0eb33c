// Package main provides the entry point for the linkwalk CLI.
//
// linkwalk is an interactive console web explorer. It fetches a page over
// HTTPS, saves it to disk, lists its title, links and images, and lets the
// operator follow a link or download an image.
//
// Usage:
//
//	linkwalk [url]
//	linkwalk grab <url>
//	linkwalk history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
