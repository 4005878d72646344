// Package scraper collects event candidates from venue web pages.
//
// Three mechanisms share the package: a static fetch-and-parse scraper for
// pages that render event cards server-side, a headless-browser scraper
// that hands rendered page text to a language-model extractor for pages
// that do not, and a local-events source for locations without a fixed
// venue page.
package scraper
