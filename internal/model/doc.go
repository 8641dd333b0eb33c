// Package model defines the data structures shared by linkwalk's packages.
//
// This package contains the following main types:
//   - Document: a fetched page (source URL plus raw body) for one navigation step
//   - Page: the title, links and images extracted from a Document
//   - Download: the result of an image download
//   - Visit: a history record of a fetched page
//
// Models live in their own package so that fetcher, crawler, session and
// database can share them without import cycles.
package model
