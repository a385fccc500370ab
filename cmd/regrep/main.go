// Command regrep prints lines that match a pattern.
//
//	regrep [flags] PATTERN [FILE...]
//	regrep [flags] -e PATTERN [FILE...]
//
// The exit status is 0 if a line was selected, 1 if none was, and 2 on a
// usage error, a malformed pattern or an unreadable input.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
