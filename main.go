package main

import "trip-planner-backend/cmd"

func main() {
	cmd.Run()
}
