package main

import "github.com/victormarques-ia/apex/cmd/apex"

func main() {
	apex.Execute()
}
