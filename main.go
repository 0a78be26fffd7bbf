package main

import "github.com/theirongolddev/capex/cmd"

func main() {
	cmd.Execute()
}
