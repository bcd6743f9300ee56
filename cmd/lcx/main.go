package main

import "github.com/Giantpizzahead/life-coach-x/cmd/lcx/root"

func main() {
	root.Execute()
}
