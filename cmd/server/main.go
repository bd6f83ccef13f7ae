package main

import (
	"github.com/trynbuy/storefront/cmd"
)

func main() {
	cmd.Execute()
}
