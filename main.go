package main

import "github.com/Beastly713/hexglitch/cmd"

func main() {
	cmd.Execute()
}
