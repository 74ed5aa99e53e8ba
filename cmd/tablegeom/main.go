package main

import "github.com/playmatatu/tablegeom/cmd/tablegeom/cmd"

func main() {
	cmd.Execute()
}
