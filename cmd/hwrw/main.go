// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command hwrw reads and writes memory mapped hardware registers through a
// text control plane.
package main

func main() {
	Execute()
}
