package main

import "github.com/vietddude/paywatch/internal/cli"

func main() {
	cli.Execute()
}
