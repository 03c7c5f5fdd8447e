package main

import "github.com/theirongolddev/fincoach/cmd"

func main() {
	cmd.Execute()
}
