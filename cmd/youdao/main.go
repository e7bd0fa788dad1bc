package main

import "github.com/visionquantech/youdao/internal/cli"

func main() {
	cli.Execute()
}
