package main

import "github.com/tasksense/tasksense/cmd"

func main() {
	cmd.Execute()
}
