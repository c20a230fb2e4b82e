package main

import (
	"github.com/siecolabs/ecommerce-orders/internal/app"
	"github.com/siecolabs/ecommerce-orders/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
