package main

import "github.com/supreme-chocomint/bandori-2019-stats/cmd"

func main() {
	cmd.Execute()
}
