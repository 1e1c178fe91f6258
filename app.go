package main

import "github.com/masmgr/worklog-go/cmd"

func main() {
	cmd.Run()
}
