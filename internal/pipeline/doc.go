// Package pipeline runs the non-interactive "grab" flow: fetch one page, save
// it, extract its references, download every image and record the results.
//
// Each stage is a Step operating on a shared Job. The Pipeline executes the
// steps in order and stops at the first failing step unless configured to
// continue. Image downloads run concurrently through a BatchDownloader, which
// bounds parallelism with errgroup and reports results in page order.
package pipeline
