package main

import "github.com/jsphweid/eventrep/cmd"

func main() {
	cmd.Execute()
}
