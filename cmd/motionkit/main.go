package main

import "github.com/dbsmedya/motionkit/cmd/motionkit/cmd"

func main() {
	cmd.Execute()
}
