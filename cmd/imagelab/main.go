package main

import (
	"fmt"
	"os"

	"github.com/setanarut/imagelab/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
}
