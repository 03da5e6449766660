package main

import "github.com/a-nagdy/anasityshop-sub000/internal/cli"

func main() {
	cli.Execute()
}
