package main

import "farm-task-service.com/farm-task-service/cmd"

func main() {
	cmd.Execute()
}
