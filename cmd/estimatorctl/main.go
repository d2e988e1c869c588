// estimatorctl lists, prints and exports saved estimates from the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	var e env
	if err := execute(newRootCmd(os.Stdout, &e), &e); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
