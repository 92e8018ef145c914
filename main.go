package main

import "github.com/klytics/fontkit/cmd"

func main() {
	cmd.Execute()
}
