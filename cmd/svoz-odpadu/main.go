package main

import (
	"embed"
	"log"

	"github.com/klabast/wb-services/svoz-odpadu/internal/app"
	"github.com/klabast/wb-services/svoz-odpadu/internal/commands"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed static/index.html
var indexHTML []byte

func main() {
	// Make embedded files available to app package
	app.StaticFiles = staticFiles
	app.IndexHTML = indexHTML

	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
