package main

import "github.com/llante/llante_site/cmd"

func main() {
	cmd.Execute()
}
