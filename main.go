package main

import "github.com/mtrifilo/psychic-homily-web-sub009/cmd"

func main() {
	cmd.Execute()
}
