// Package session implements the interactive browsing loop.
//
// A Session reads operator lines, fetches the requested page, saves it,
// prints its title, links and images, then offers a menu to follow a link,
// download an image or quit. Navigation is an explicit state machine:
//
//	AwaitingURL -> Fetching -> Parsed -> ChoosingLink  -> Fetching
//	                                  -> ChoosingImage -> Parsed
//	                                  -> Terminal
//
// A failed fetch clears the current page and returns to AwaitingURL. Invalid
// menu input re-prompts in the same state. End of input ends the session as
// if the operator had quit.
package session
