package main

import "itemdex/cmd"

func main() {
	cmd.Execute()
}
