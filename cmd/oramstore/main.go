// Executable oramstore is a command line client for an oblivious block
// store kept in a local database.
package main

import "github.com/etclab/oramstore/cmd/oramstore/internal/cmd"

func main() {
	cmd.Execute()
}
