package main

import "github.com/user/studio-review/cmd"

func main() {
	cmd.Execute()
}
