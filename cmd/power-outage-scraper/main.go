package main

import "github.com/VAlux/power-outage-scraper/internal/cli"

func main() {
	cli.Execute()
}
