package main

import "github.com/jugl/opencv-setup/internal/cli"

func main() {
	cli.Execute()
}
