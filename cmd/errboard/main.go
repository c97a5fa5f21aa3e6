package main

import (
	"github.com/charliek/errboard/internal/cli"
)

func main() {
	cli.Execute()
}
