package main

import "rowsync/cmd"

func main() {
	cmd.Execute()
}
