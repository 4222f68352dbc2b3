package main

import "github.com/masmgr/pvcslog-go/cmd"

func main() {
	cmd.Run()
}
