// Command storefront browses a remote product catalog from the terminal.
package main

import "github.com/derickschaefer/storefront/cmd"

func main() {
	cmd.Execute()
}
