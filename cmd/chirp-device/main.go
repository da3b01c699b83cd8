package main

import (
	_ "go.uber.org/automaxprocs"

	"cloupeer.io/chirp/cmd/chirp-device/app"
)

func main() {
	app.NewApp().Run()
}
