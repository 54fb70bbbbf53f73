package main

import "github.com/example/meal-reservations/cmd"

func main() {
	cmd.Execute()
}
