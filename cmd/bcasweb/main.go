// Command bcasweb runs the school website and moves its content between
// storage backends.
package main

func main() {
	Execute()
}
