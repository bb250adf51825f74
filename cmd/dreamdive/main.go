package main

import (
	"os"

	"github.com/dreamdive/dreamdive/dreamservice"
)

func main() {
	if err := dreamservice.Run(); err != nil {
		os.Exit(1)
	}
}
