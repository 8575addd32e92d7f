package main

import (
	"github.com/humanbelnik/scrumpoker/internal/app"
	"github.com/humanbelnik/scrumpoker/internal/config"
)

func main() {
	app.Go(config.Load())
}
