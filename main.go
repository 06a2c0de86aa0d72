package main

import "github.com/KaramelBytes/tabprobe/cmd"

func main() {
	cmd.Execute()
}
