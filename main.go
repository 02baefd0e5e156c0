package main

import "github.com/xrsl/careerflow/cmd"

func main() {
	cmd.Execute()
}
