// Command orderdemo runs the traced order flow, either as an HTTP server or
// as a concurrency demonstration comparing trace strategies.
package main

func main() {
	Execute()
}
