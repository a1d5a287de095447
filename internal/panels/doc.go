// Package panels renders the dashboard's views. Each panel is a pure
// function of its own input struct and the cell area it may use; panels
// never see the navigation controller or the filter store.
package panels
