package main

import (
	"tolet.dev/backend/cmd/app"
)

func main() {
	app.Run()
}
