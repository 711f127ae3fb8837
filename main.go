package main

import (
	"log"

	"github.com/MartinBouvet/panel-entreprises/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
