package main

import "github.com/guimove/linkfit/cmd"

func main() {
	cmd.Execute()
}
