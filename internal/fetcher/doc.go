// Package fetcher downloads filter lists from remote sources and caches
// them on disk. Cached copies are reused while fresh and serve as a
// fallback when a download fails.
package fetcher
