// Package main provides the entry point for the abpconv CLI.
//
// abpconv converts AdBlock Plus filter lists (EasyList syntax) into the
// WebKit content blocker JSON format used by Safari and GNOME Web.
//
// Usage:
//
//	abpconv convert easylist.txt blockerList.json
//	abpconv convert --source easylist
//	abpconv fetch
//
// See --help for all available options.
package main

// main is the entry point for abpconv.
func main() {
	Execute()
}
