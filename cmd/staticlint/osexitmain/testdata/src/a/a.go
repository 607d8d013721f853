package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("starting")
	defer func() {
		fmt.Println("deferred")
	}()
	os.Exit(1) // want "It is forbidden to call os.Exit directly in main function; use return code from main instead"
}

func helper() {
	os.Exit(2)
}
