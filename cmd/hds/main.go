// Command hds inspects and edits hierarchical data containers through the
// locator bridge.
package main

import "github.com/mesh-intelligence/hdsbridge/internal/cli"

func main() {
	cli.Execute()
}
