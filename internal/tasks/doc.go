// Package tasks runs the multi-request operations behind the CLI and TUI with progress reporting.
//
// # Operations
//
//  1. [PopularPager] : infinite pagination over the popular movies endpoint
//     - Requests page+1 while the last page is below total_pages
//     - Each page is cached under its own key for the popular stale time
//
//  2. [Engine.FetchDetails] : bulk movie details lookup
//     - Worker pool (default 4, max 10) sharing one rate limiter
//     - Results are collected per movie; one failure does not stop the others
//
//  3. [Engine.ExportFavorites] : favorites list written through the formatter
//
// # Progress Reporting
//
// All operations accept an optional channel of [ProgressUpdate]. Sends use select with default
// so a slow or absent reader never blocks the work.
package tasks
