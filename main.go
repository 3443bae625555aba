package main

import "github.com/drpal/commandments/cmd"

func main() {
	cmd.Execute()
}
