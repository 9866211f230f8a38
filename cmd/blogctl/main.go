// Command blogctl runs operator tasks against the blog admin database.
package main

func main() {
	Execute()
}
