package main

import "github.com/oshokin/grinder-console/cmd/grinder-console/cmd"

func main() {
	cmd.Execute()
}
