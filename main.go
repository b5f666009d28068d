package main

import "github.com/alexiusacademia/gravdam/cmd"

func main() {
	cmd.Execute()
}
