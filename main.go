package main

import "github.com/kudzaitsapo/fileflow-web/cmd"

func main() {
	cmd.Execute()
}
