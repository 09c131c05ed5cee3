// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a small movie browser over the core packages:
//  1. [PopularView] : Browse popular movies; the next page loads when the cursor reaches the end
//  2. [DetailsView] : Read a movie's details and toggle it as a favorite with f
//  3. [FavoritesView] : List the signed-in user's favorites
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Service calls run as [tea.Cmd] functions so the event loop never blocks; failures surface in an error banner
// carrying the normalized service message.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, f, v, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
