//go:build tinygo

package main

import (
	"cyclic/app"
	"cyclic/hal"
)

func main() {
	app.Run(hal.New())
}
