// Command fiberdemo runs a frame loop that drives tweens on fibers while
// other goroutines hand deferred work to its scheduler.
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
