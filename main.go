package main

import "storage-sample/cmd"

func main() {
	cmd.Execute()
}
